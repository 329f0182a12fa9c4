package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/sette-e-mezzo/internal/game/rule"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/ui/common"
)

// seatWidth 每个座位框的宽度
const seatWidth = 26

// Header 标题栏：余额、下注、局数和剩余牌数
func Header(v protocol.TableView) string {
	title := common.TitleStyle("🂡 Sette e Mezzo")
	info := fmt.Sprintf("Saldo: %d  │  Puntata: %d  │  Mano: %d  │  Mazzo: %d",
		v.Balance, v.Bet, v.Round, v.DeckCount)
	return lipgloss.JoinVertical(lipgloss.Center, title, common.SubtleStyle.Render(info))
}

// SeatBox 渲染一个座位
func SeatBox(s protocol.SeatView) string {
	icon := common.CPUIcon
	switch s.Seat {
	case "DEALER":
		icon = common.DealerIcon
	case "PLAYER":
		icon = common.PlayerIcon
	}
	name := icon + " " + common.TruncateName(s.Name, 12)
	if s.Turn {
		name = common.TurnIcon + name
	}

	score := "Punti: ?"
	if s.ScoreVisible {
		score = "Punti: " + rule.FormatScore(s.Score)
	}
	switch {
	case s.Busted:
		score += " " + common.BustIcon + " Sballato"
	case s.Standing:
		score += " " + common.StandIcon
	}

	content := lipgloss.JoinVertical(lipgloss.Left, name, RenderHand(s.Cards), score)
	box := common.BoxStyle
	if s.Turn {
		box = common.ActiveBox
	}
	return box.Width(seatWidth).Render(content)
}

// Table 牌桌：庄家在上，玩家和 CPU 在下
func Table(v protocol.TableView) string {
	var rows []string
	if dealer, ok := v.Seat("DEALER"); ok {
		rows = append(rows, SeatBox(dealer))
	}

	var bottom []string
	for _, id := range []string{"CPU1", "PLAYER", "CPU2"} {
		s, ok := v.Seat(id)
		if !ok || !s.Active {
			continue
		}
		bottom = append(bottom, SeatBox(s))
	}
	if len(bottom) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, bottom...))
	}

	rows = append(rows, common.MessageStyle.Render(v.Message))
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

// ModeMenu 模式选择菜单
func ModeMenu(v protocol.TableView, cursor int) string {
	options := []string{
		"1. Singolo  ─ tu contro il banco",
		"2. Multi    ─ banco e 2 avversari CPU",
	}

	var sb strings.Builder
	sb.WriteString(common.MessageStyle.Render(v.Message))
	sb.WriteString("\n\n")
	for i, opt := range options {
		if i == cursor {
			sb.WriteString(common.CursorStyle.Render("▸ " + opt))
		} else {
			sb.WriteString("  " + opt)
		}
		sb.WriteString("\n")
	}
	return common.BoxStyle.Render(strings.TrimSuffix(sb.String(), "\n"))
}

// BettingPanel 下注面板
func BettingPanel(v protocol.TableView, rules protocol.RulesInfo) string {
	mode := "Singolo"
	if v.Mode == "MULTI" {
		mode = "Multi"
	}
	lines := []string{
		common.MessageStyle.Render(v.Message),
		"",
		fmt.Sprintf("Modalità: %s", mode),
		fmt.Sprintf("Saldo:    %d", v.Balance),
		common.CursorStyle.Render(fmt.Sprintf("Puntata:  ◀ %d ▶", v.Bet)),
		common.SubtleStyle.Render(fmt.Sprintf("min %d, passo %d", rules.MinBet, rules.BetStep)),
	}
	return common.BoxStyle.Render(strings.Join(lines, "\n"))
}

// AdviceBox 建议框，请求中显示 spinner
func AdviceBox(text string, loading bool, spin string) string {
	switch {
	case loading:
		return common.AdviceStyle.Render(spin + " Il consigliere ci pensa...")
	case text != "":
		return common.AdviceStyle.Render("💡 " + text)
	default:
		return ""
	}
}
