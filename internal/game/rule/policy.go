package rule

import "github.com/palemoky/sette-e-mezzo/internal/game/card"

const (
	// CPUThreshold CPU 在点数低于 5 时继续要牌，模仿庄家的最低要求
	CPUThreshold = 5.0

	// DealerFallback 所有对手都爆牌时庄家补到的最低点数
	DealerFallback = 4.5
)

// Context 要牌决策所需的桌面信息
type Context struct {
	// Target 仍未爆牌的对手中的最高点数，没有则为 0
	Target float64
}

// DrawPolicy 决定自动座位是否继续要牌。实现必须是纯函数。
type DrawPolicy interface {
	ShouldDraw(hand []card.Card, ctx Context) bool
}

// DrawPolicyFunc 函数适配器
type DrawPolicyFunc func(hand []card.Card, ctx Context) bool

func (f DrawPolicyFunc) ShouldDraw(hand []card.Card, ctx Context) bool {
	return f(hand, ctx)
}

// ThresholdPolicy 点数低于阈值时要牌
func ThresholdPolicy(threshold float64) DrawPolicy {
	return DrawPolicyFunc(func(hand []card.Card, _ Context) bool {
		return Score(hand) < threshold
	})
}

// CPUPolicy CPU 对手的固定策略
func CPUPolicy() DrawPolicy {
	return ThresholdPolicy(CPUThreshold)
}

// DealerPolicy 庄家策略：追到最高的存活对手为止；
// 如果所有对手都爆牌，则补到 4.5。永远不会在 7.5 及以上继续要牌。
func DealerPolicy() DrawPolicy {
	return DrawPolicyFunc(func(hand []card.Card, ctx Context) bool {
		score := Score(hand)
		if score >= BustLimit {
			return false
		}
		if score < ctx.Target {
			return true
		}
		return ctx.Target == 0 && score < DealerFallback
	})
}
