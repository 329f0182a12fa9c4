package table

import (
	"slices"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/game/ledger"
	"github.com/palemoky/sette-e-mezzo/internal/game/rule"
)

const (
	defaultInitialBalance = 500
	defaultMinBet         = 10
	defaultBetStep        = 10

	msgChooseMode = "Scegli la tua modalità di gioco"
)

// Rules 桌面参数和自动座位的策略
type Rules struct {
	InitialBalance int
	MinBet         int
	DefaultBet     int
	BetStep        int

	CPUPolicy    rule.DrawPolicy
	DealerPolicy rule.DrawPolicy
}

// DefaultRules 默认参数：初始 500，最低下注 10
func DefaultRules() Rules {
	return Rules{
		InitialBalance: defaultInitialBalance,
		MinBet:         defaultMinBet,
		DefaultBet:     defaultMinBet,
		BetStep:        defaultBetStep,
		CPUPolicy:      rule.CPUPolicy(),
		DealerPolicy:   rule.DealerPolicy(),
	}
}

// Engine 桌面状态机。所有方法都是纯函数：输入当前状态，返回下一个状态。
// 在不匹配的状态下调用的操作直接返回原状态。
type Engine struct {
	rules Rules
}

// NewEngine 创建状态机，未设置的参数使用默认值
func NewEngine(r Rules) *Engine {
	def := DefaultRules()
	if r.InitialBalance <= 0 {
		r.InitialBalance = def.InitialBalance
	}
	if r.MinBet <= 0 {
		r.MinBet = def.MinBet
	}
	if r.DefaultBet < r.MinBet {
		r.DefaultBet = r.MinBet
	}
	if r.BetStep <= 0 {
		r.BetStep = def.BetStep
	}
	if r.CPUPolicy == nil {
		r.CPUPolicy = def.CPUPolicy
	}
	if r.DealerPolicy == nil {
		r.DealerPolicy = def.DealerPolicy
	}
	return &Engine{rules: r}
}

// Rules 返回生效的参数
func (e *Engine) Rules() Rules { return e.rules }

// New 会话开始时的状态：未选模式，牌堆为空
func (e *Engine) New() State {
	var s State
	for _, seat := range Seats {
		s.Players[seat] = Participant{
			Seat:   seat,
			Name:   seatNames[seat],
			Active: seat == SeatPlayer || seat == SeatDealer,
		}
	}
	s.Status = StatusModeSelection
	s.Mode = ModeSingle
	s.Balance = e.rules.InitialBalance
	s.Bet = e.rules.DefaultBet
	s.Message = msgChooseMode
	return s
}

// Mount 放入第一副牌
func (e *Engine) Mount(s State, deck card.Deck) State {
	s.Deck = deck
	return s
}

// SelectMode 选择模式并进入下注
func (e *Engine) SelectMode(s State, mode Mode) State {
	if s.Status != StatusModeSelection {
		return s
	}
	if _, ok := ParseMode(string(mode)); !ok {
		return s
	}

	s.Mode = mode
	multi := mode == ModeMulti
	s.Players[SeatCPU1].Active = multi
	s.Players[SeatCPU2].Active = multi
	s.Status = StatusBetting
	if multi {
		s.Message = "Sfida il banco e 2 avversari CPU."
	} else {
		s.Message = "Sfida il banco 1 contro 1."
	}
	return s
}

// AdjustBet 调整下注，范围 [MinBet, Balance]
func (e *Engine) AdjustBet(s State, delta int) State {
	if s.Status != StatusBetting {
		return s
	}
	s.Bet = e.clampBet(s.Bet+delta, s.Balance)
	return s
}

func (e *Engine) clampBet(bet, balance int) int {
	return max(e.rules.MinBet, min(balance, bet))
}

// Deal 换上新牌，给每个入座的座位发一张牌
func (e *Engine) Deal(s State, deck card.Deck) State {
	if s.Status != StatusBetting {
		return s
	}

	s.Bet = e.clampBet(s.Bet, s.Balance)
	for _, seat := range Seats {
		p := s.Players[seat]
		p.Hand = nil
		p.Score = 0
		p.Busted = false
		p.Standing = false
		if p.Active {
			var c card.Card
			c, deck = deck.Pop()
			p.Hand = []card.Card{c}
			p.Score = rule.Score(p.Hand)
			p.Busted = rule.IsBust(p.Score)
		}
		s.Players[seat] = p
	}
	s.Deck = deck
	s.Round++

	if s.Mode == ModeMulti {
		s.Status = StatusTurnCPU1
		s.Message = "Turno di CPU 1..."
	} else {
		s.Status = StatusTurnPlayer
		s.Message = "Tocca a te!"
	}
	return s
}

// draw 给座位发一张牌并重新计分
func draw(s State, seat Seat) State {
	c, rest := s.Deck.Pop()
	p := s.Players[seat]
	p.Hand = card.Append(p.Hand, c)
	p.Score = rule.Score(p.Hand)
	p.Busted = rule.IsBust(p.Score)
	s.Players[seat] = p
	s.Deck = rest
	return s
}

// --- CPU 回合 ---

// WantsDraw CPU 是否继续要牌
func (e *Engine) WantsDraw(s State, seat Seat) bool {
	if !seat.IsCPU() || s.Status != turnStatus(seat) {
		return false
	}
	p := s.Players[seat]
	if !p.Active || p.Busted {
		return false
	}
	return e.rules.CPUPolicy.ShouldDraw(p.Hand, rule.Context{})
}

// AutoDraw CPU 要一张牌
func (e *Engine) AutoDraw(s State, seat Seat) State {
	if !e.WantsDraw(s, seat) {
		return s
	}
	return draw(s, seat)
}

// EndAutoTurn 结束 CPU 回合：CPU1 之后轮到玩家，CPU2 之后轮到庄家
func (e *Engine) EndAutoTurn(s State, seat Seat) State {
	if !seat.IsCPU() || s.Status != turnStatus(seat) {
		return s
	}

	p := s.Players[seat]
	p.Standing = !p.Busted
	s.Players[seat] = p

	if seat == SeatCPU1 {
		s.Status = StatusTurnPlayer
		s.Message = "Tocca a te! 'Carta' o 'Stai'?"
	} else {
		s.Status = StatusDealerTurn
		s.Message = "Turno di " + s.Players[SeatDealer].Name + "..."
	}
	return s
}

// --- 玩家回合 ---

func (e *Engine) afterPlayer(s State) Status {
	if s.Mode == ModeMulti {
		return StatusTurnCPU2
	}
	return StatusDealerTurn
}

// Hit 玩家要牌，爆牌则立即轮到下一个座位
func (e *Engine) Hit(s State) State {
	if s.Status != StatusTurnPlayer {
		return s
	}

	s = draw(s, SeatPlayer)
	if !s.Players[SeatPlayer].Busted {
		s.Message = "Hai chiesto carta."
		return s
	}

	s.Status = e.afterPlayer(s)
	if s.Status == StatusTurnCPU2 {
		s.Message = "Hai sballato! Turno di CPU 2..."
	} else {
		s.Message = "Hai sballato! Turno del Banco..."
	}
	return s
}

// Stand 玩家停牌
func (e *Engine) Stand(s State) State {
	if s.Status != StatusTurnPlayer {
		return s
	}

	s.Players[SeatPlayer].Standing = true
	s.Status = e.afterPlayer(s)
	if s.Status == StatusTurnCPU2 {
		s.Message = "Ti sei fermato. Turno di CPU 2..."
	} else {
		s.Message = "Ti sei fermato. Turno del Banco..."
	}
	return s
}

// --- 庄家回合 ---

// DealerTarget 入座且未爆牌的非庄家座位中的最高点数，没有则为 0
func (e *Engine) DealerTarget(s State) float64 {
	target := 0.0
	for _, seat := range Seats {
		p := s.Players[seat]
		if seat == SeatDealer || !p.Active || p.Busted {
			continue
		}
		target = max(target, p.Score)
	}
	return target
}

// DealerWantsDraw 庄家是否继续要牌
func (e *Engine) DealerWantsDraw(s State) bool {
	if s.Status != StatusDealerTurn {
		return false
	}
	ctx := rule.Context{Target: e.DealerTarget(s)}
	return e.rules.DealerPolicy.ShouldDraw(s.Players[SeatDealer].Hand, ctx)
}

// DealerDraw 庄家要一张牌
func (e *Engine) DealerDraw(s State) State {
	if !e.DealerWantsDraw(s) {
		return s
	}
	return draw(s, SeatDealer)
}

// Settle 庄家回合结束后结算，只结算玩家对庄家
func (e *Engine) Settle(s State) State {
	if s.Status != StatusDealerTurn {
		return s
	}

	player := s.Players[SeatPlayer]
	dealer := s.Players[SeatDealer]
	result := ledger.Settle(ledger.Input{
		PlayerScore:  player.Score,
		PlayerBusted: player.Busted,
		DealerScore:  dealer.Score,
	}, s.Balance, s.Bet, e.rules.InitialBalance)

	s.Players[SeatDealer].Standing = !dealer.Busted
	s.Balance = result.Balance
	s.History = append(slices.Clip(s.History), result.Entry)
	s.Message = result.Message
	s.Status = StatusResult
	return s
}

// Autoplay 同步执行所有自动回合，直到需要玩家操作或结算完成。
// 不带节奏延迟，用于测试和无界面的模拟。
func (e *Engine) Autoplay(s State) State {
	for s.Status.IsAutomated() {
		switch s.Status {
		case StatusTurnCPU1, StatusTurnCPU2:
			seat, _ := s.CurrentSeat()
			for e.WantsDraw(s, seat) {
				s = e.AutoDraw(s, seat)
			}
			s = e.EndAutoTurn(s, seat)
		case StatusDealerTurn:
			for e.DealerWantsDraw(s) {
				s = e.DealerDraw(s)
			}
			s = e.Settle(s)
		}
	}
	return s
}

// --- 回合之间 ---

// PlayAgain 从结算回到下注，清空所有手牌和标记
func (e *Engine) PlayAgain(s State) State {
	if s.Status != StatusResult {
		return s
	}
	for _, seat := range Seats {
		p := s.Players[seat]
		p.Hand = nil
		p.Score = 0
		p.Busted = false
		p.Standing = false
		s.Players[seat] = p
	}
	s.Status = StatusBetting
	s.Message = "Nuova mano!"
	return s
}

// ReturnToMenu 任何状态下都可以回到模式选择，余额、下注、模式和历史保留
func (e *Engine) ReturnToMenu(s State) State {
	s.Status = StatusModeSelection
	s.Message = msgChooseMode
	s.Round++
	return s
}
