package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/sette-e-mezzo/internal/ui/common"
)

// RenderGameRules 返回规则说明
func RenderGameRules() string {
	rules := []string{
		"Valore delle carte",
		"  Asso = 1, dal 2 al 7 valore nominale",
		"  Fante, Cavallo e Re = ½ punto",
		"  Re di Denari (Matta ★): vale da 1 a 7,",
		"  il valore più alto che non fa sballare",
		"",
		"Il gioco",
		"  Avvicinati a 7½ senza superarlo: oltre è sballato",
		"  I CPU chiedono carta sotto i 5 punti",
		"  Il banco chiede carta finché non raggiunge il punteggio",
		"  più alto ancora in gioco",
		"  (se tutti hanno sballato, si ferma a 4½)",
		"  Il pareggio va al banco",
		"",
		"Tasti",
		"  ←/→ puntata   invio distribuisci",
		"  c carta   s stai   a consiglio",
		"  n nuova mano   esc menu   ? regole   q esci",
	}
	return common.BoxStyle.Render(strings.Join(rules, "\n"))
}

// RulesView renders the full rules view.
func RulesView(width, height int) string {
	var sb strings.Builder

	title := common.TitleStyle("📖 Regole del Sette e Mezzo")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, title))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, RenderGameRules()))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.SubtleStyle.Render("Premi ? o ESC per tornare")))

	if height > 0 {
		return lipgloss.PlaceVertical(height, lipgloss.Center, sb.String())
	}
	return sb.String()
}
