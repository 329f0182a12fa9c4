package card

import (
	"slices"
	"strings"
)

// Append 返回追加一张牌后的新手牌，不修改原切片
func Append(hand []Card, c Card) []Card {
	next := make([]Card, len(hand), len(hand)+1)
	copy(next, hand)
	return append(next, c)
}

// WildIndex 返回 Matta 在手牌中的位置，没有则返回 -1
func WildIndex(hand []Card) int {
	return slices.IndexFunc(hand, func(c Card) bool { return c.Wild })
}

// IDs 返回牌的 ID 列表
func IDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID()
	}
	return ids
}

// Describe 返回手牌的可读描述，如 "Asso di Denari, Re di Coppe"
func Describe(cards []Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}
