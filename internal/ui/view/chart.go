package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/palemoky/sette-e-mezzo/internal/game/ledger"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
	"github.com/palemoky/sette-e-mezzo/internal/protocol/convert"
	"github.com/palemoky/sette-e-mezzo/internal/ui/common"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// maxSparkPoints 走势图最多显示最近的局数
const maxSparkPoints = 40

// Sparkline 余额走势，每局一个字符
func Sparkline(series []int) string {
	if len(series) == 0 {
		return ""
	}
	if len(series) > maxSparkPoints {
		series = series[len(series)-maxSparkPoints:]
	}

	lo, hi := slices.Min(series), slices.Max(series)
	var sb strings.Builder
	for _, v := range series {
		idx := len(sparkBlocks) - 1
		if hi > lo {
			idx = (v - lo) * (len(sparkBlocks) - 1) / (hi - lo)
		}
		sb.WriteRune(sparkBlocks[idx])
	}
	return sb.String()
}

// SummaryLine 会话统计
func SummaryLine(s ledger.Summary) string {
	sign := "+"
	if s.Net < 0 {
		sign = ""
	}
	return fmt.Sprintf("Mani: %d  Vinte: %d  Perse: %d  (%.0f%%)  Netto: %s%d",
		s.Rounds, s.Wins, s.Losses, s.WinRate()*100, sign, s.Net)
}

// ResultPanel 结算面板：结果、余额走势和统计
func ResultPanel(v protocol.TableView) string {
	style := common.WinStyle
	if n := len(v.History); n > 0 && v.History[n-1].Result != string(ledger.Win) {
		style = common.LossStyle
	}

	lines := []string{style.Render(v.Message)}
	if spark := Sparkline(v.Series); spark != "" {
		lines = append(lines, "", "Andamento saldo:", common.ChartStyle.Render(spark))
	}
	lines = append(lines, common.SubtleStyle.Render(SummaryLine(ledger.Summarize(convert.EntriesFromView(v)))))
	return common.BoxStyle.Render(strings.Join(lines, "\n"))
}
