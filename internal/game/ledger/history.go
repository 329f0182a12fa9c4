package ledger

// BalanceSeries 从初始余额出发，按历史记录逐局累加，返回每局结束后的余额。
// 与实际余额不同，这里不做归零重置，用于走势图。
func BalanceSeries(initial int, history []Entry) []int {
	series := make([]int, len(history))
	running := initial
	for i, e := range history {
		running = Apply(running, e.Result, e.Amount)
		series[i] = running
	}
	return series
}

// Summary 会话统计
type Summary struct {
	Rounds  int
	Wins    int
	Losses  int
	Draws   int
	Wagered int
	Net     int
}

// Summarize 汇总历史记录
func Summarize(history []Entry) Summary {
	var s Summary
	for _, e := range history {
		s.Rounds++
		s.Wagered += e.Amount
		switch e.Result {
		case Win:
			s.Wins++
			s.Net += e.Amount
		case Loss:
			s.Losses++
			s.Net -= e.Amount
		case Draw:
			s.Draws++
		}
	}
	return s
}

// WinRate 胜率（0~1），没有对局时为 0
func (s Summary) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}
