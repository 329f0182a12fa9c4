// Package view provides UI rendering functions.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/ui/common"
)

var rankLabels = map[int]string{1: "A", 8: "F", 9: "C", 10: "R"}

// RankLabel 牌面上的短标记：A、2..7、F、C、R
func RankLabel(rank int) string {
	if label, ok := rankLabels[rank]; ok {
		return label
	}
	return fmt.Sprintf("%d", rank)
}

// RenderCard 渲染一张牌，暗牌显示牌背
func RenderCard(info protocol.CardInfo) string {
	if info.Hidden {
		return common.HiddenStyle.Render(common.HiddenFace + "\n" + common.HiddenFace)
	}

	symbol := ""
	if s, err := card.ParseSuit(info.Suit); err == nil {
		symbol = s.Symbol()
	}
	top := RankLabel(info.Rank)
	if info.Wild {
		top += common.WildIcon
	}

	style := common.CardStyle.Foreground(common.SuitColors[info.Suit])
	return style.Render(top + "\n" + symbol)
}

// RenderHand 横向排列一手牌
func RenderHand(cards []protocol.CardInfo) string {
	if len(cards) == 0 {
		return common.SubtleStyle.Render("(nessuna carta)")
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = RenderCard(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// DescribeHand 手牌的文字描述，用于窄终端
func DescribeHand(cards []protocol.CardInfo) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		if c.Hidden {
			names[i] = "?"
			continue
		}
		s, err := card.ParseSuit(c.Suit)
		if err != nil {
			names[i] = "?"
			continue
		}
		names[i] = card.New(s, card.Rank(c.Rank)).Name()
	}
	return strings.Join(names, ", ")
}
