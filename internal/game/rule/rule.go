package rule

import (
	"math"
	"strconv"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
)

const (
	// BustLimit 超过 7.5 即爆牌
	BustLimit = 7.5

	// Matta 只能取 1~7 的整数
	wildMin = 1
	wildMax = 7
)

// Score 计算手牌点数。每次加牌后都应重新计算，不做增量缓存。
//
// 没有 Matta 时直接求和；有 Matta 时，先求其余牌之和 base，
// Matta 取不爆牌前提下的最大整数 clamp(floor(7.5-base), 1, 7)。
// base 已经 >= 7.5 时 Matta 只能取 1，结果必然爆牌。
func Score(hand []card.Card) float64 {
	base := 0.0
	hasWild := false
	for _, c := range hand {
		if c.Wild {
			hasWild = true
			continue
		}
		base += c.Value
	}

	if !hasWild {
		return base
	}
	return base + WildValue(base)
}

// WildValue 返回 Matta 在其余牌点数为 base 时取的值
func WildValue(base float64) float64 {
	if base >= BustLimit {
		return wildMin
	}
	best := math.Floor(BustLimit - base)
	return min(max(best, wildMin), wildMax)
}

// IsBust 判断点数是否爆牌
func IsBust(score float64) bool {
	return score > BustLimit
}

// FormatScore 格式化点数："7"、"7.5"
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
