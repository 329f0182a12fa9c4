// Package table implements the Sette e Mezzo turn sequencer as pure
// transitions over an immutable State value.
package table

import (
	"slices"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/game/ledger"
)

// Status 桌面状态
type Status string

const (
	StatusModeSelection Status = "MODE_SELECTION"
	StatusBetting       Status = "BETTING"
	StatusTurnCPU1      Status = "TURN_CPU1"
	StatusTurnPlayer    Status = "TURN_PLAYER"
	StatusTurnCPU2      Status = "TURN_CPU2"
	StatusDealerTurn    Status = "DEALER_TURN"
	StatusResult        Status = "RESULT"
)

// IsAutomated 进入这些状态时由驱动器自动执行
func (s Status) IsAutomated() bool {
	return s == StatusTurnCPU1 || s == StatusTurnCPU2 || s == StatusDealerTurn
}

// Mode 游戏模式
type Mode string

const (
	ModeSingle Mode = "SINGLE" // 玩家 + 庄家
	ModeMulti  Mode = "MULTI"  // 玩家 + 两个 CPU + 庄家
)

// ParseMode 解析模式字符串，无法识别时返回 false
func ParseMode(v string) (Mode, bool) {
	switch Mode(v) {
	case ModeSingle, ModeMulti:
		return Mode(v), true
	}
	return "", false
}

// Seat 座位
type Seat int

const (
	SeatCPU1 Seat = iota
	SeatPlayer
	SeatCPU2
	SeatDealer
	seatCount
)

// Seats 发牌顺序
var Seats = [seatCount]Seat{SeatCPU1, SeatPlayer, SeatCPU2, SeatDealer}

var seatIDs = [seatCount]string{"CPU1", "PLAYER", "CPU2", "DEALER"}

var seatNames = [seatCount]string{"CPU 1", "Io", "CPU 2", "Banco"}

func (s Seat) String() string {
	if s < 0 || s >= seatCount {
		return ""
	}
	return seatIDs[s]
}

// IsCPU CPU 对手座位
func (s Seat) IsCPU() bool { return s == SeatCPU1 || s == SeatCPU2 }

// Participant 一个座位上的参与者
type Participant struct {
	Seat     Seat
	Name     string
	Hand     []card.Card
	Score    float64
	Busted   bool
	Standing bool
	Active   bool
}

// State 桌面完整状态。所有转换都返回新值，不修改旧值。
type State struct {
	Deck    card.Deck
	Players [seatCount]Participant
	Status  Status
	Mode    Mode
	Balance int
	Bet     int
	Message string
	History []ledger.Entry

	// Round 每次发牌和返回菜单时递增，自动流程据此判断自己是否已过期
	Round int
}

// Player 返回指定座位的参与者
func (s State) Player(seat Seat) Participant {
	return s.Players[seat]
}

// Clone 深拷贝，交给外部使用的快照都应经过 Clone
func (s State) Clone() State {
	s.Deck = slices.Clone(s.Deck)
	s.History = slices.Clone(s.History)
	for i := range s.Players {
		s.Players[i].Hand = slices.Clone(s.Players[i].Hand)
	}
	return s
}

// CurrentSeat 返回当前行动的座位
func (s State) CurrentSeat() (Seat, bool) {
	switch s.Status {
	case StatusTurnCPU1:
		return SeatCPU1, true
	case StatusTurnPlayer:
		return SeatPlayer, true
	case StatusTurnCPU2:
		return SeatCPU2, true
	case StatusDealerTurn:
		return SeatDealer, true
	}
	return 0, false
}

// HidesHoleCard 庄家的第一张牌在庄家回合和结算前都是暗牌
func (s State) HidesHoleCard(seat Seat) bool {
	return seat == SeatDealer && s.Status != StatusDealerTurn && s.Status != StatusResult
}

// ActiveSeats 返回本模式入座的座位
func (s State) ActiveSeats() []Seat {
	seats := make([]Seat, 0, seatCount)
	for _, seat := range Seats {
		if s.Players[seat].Active {
			seats = append(seats, seat)
		}
	}
	return seats
}

// CardsInPlay 牌堆加所有手牌，用于校验 40 张牌守恒
func (s State) CardsInPlay() []card.Card {
	cards := slices.Clone(s.Deck)
	for _, p := range s.Players {
		cards = append(cards, p.Hand...)
	}
	return cards
}

func turnStatus(seat Seat) Status {
	switch seat {
	case SeatCPU1:
		return StatusTurnCPU1
	case SeatCPU2:
		return StatusTurnCPU2
	case SeatDealer:
		return StatusDealerTurn
	default:
		return StatusTurnPlayer
	}
}
