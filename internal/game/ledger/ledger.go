// Package ledger settles a finished round against the bank and keeps the
// running history of the session.
package ledger

import (
	"fmt"

	"github.com/palemoky/sette-e-mezzo/internal/game/rule"
)

// Outcome 一局的结果
type Outcome string

const (
	Win  Outcome = "WIN"
	Loss Outcome = "LOSS"
	Draw Outcome = "DRAW" // 当前规则下不会产生，保留给历史记录
)

// Entry 历史记录中的一局
type Entry struct {
	Result Outcome `json:"result"`
	Amount int     `json:"amount"`
}

// Input 结算所需的最终点数，只比较玩家和庄家
type Input struct {
	PlayerScore  float64
	PlayerBusted bool
	DealerScore  float64
}

// Settlement 结算结果
type Settlement struct {
	Outcome Outcome
	Balance int
	Message string
	Entry   Entry
}

// Settle 结算一局。规则按顺序匹配：
//  1. 玩家爆牌：输
//  2. 庄家爆牌：赢
//  3. 庄家点数 >= 玩家：输（平局算庄家赢）
//  4. 其他情况：赢
//
// 结算后余额 <= 0 时恢复为初始余额。CPU 座位不参与结算。
func Settle(in Input, balance, bet, initial int) Settlement {
	var (
		outcome Outcome
		message string
	)

	switch {
	case in.PlayerBusted:
		outcome = Loss
		message = "Hai sballato e perso."
	case rule.IsBust(in.DealerScore):
		outcome = Win
		message = "Il banco ha sballato! Vinto!"
	case in.DealerScore >= in.PlayerScore:
		outcome = Loss
		message = fmt.Sprintf("Banco vince (%s a %s).", rule.FormatScore(in.DealerScore), rule.FormatScore(in.PlayerScore))
	default:
		outcome = Win
		message = fmt.Sprintf("Hai vinto! (%s a %s)", rule.FormatScore(in.PlayerScore), rule.FormatScore(in.DealerScore))
	}

	next := Apply(balance, outcome, bet)
	if next <= 0 {
		next = initial
	}

	return Settlement{
		Outcome: outcome,
		Balance: next,
		Message: message,
		Entry:   Entry{Result: outcome, Amount: bet},
	}
}

// Apply 按结果调整余额，不处理重置
func Apply(balance int, outcome Outcome, amount int) int {
	switch outcome {
	case Win:
		return balance + amount
	case Loss:
		return balance - amount
	default:
		return balance
	}
}
