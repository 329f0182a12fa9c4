package convert

import (
	"github.com/palemoky/sette-e-mezzo/internal/game/ledger"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
)

// ViewFromState 生成渲染用快照。庄家暗牌和点数在揭开前被遮住，
// 所以这个视图可以直接发给远端客户端。
func ViewFromState(s table.State, initialBalance int) protocol.TableView {
	current, hasTurn := s.CurrentSeat()

	seats := make([]protocol.SeatView, 0, len(table.Seats))
	for _, seat := range table.Seats {
		p := s.Player(seat)
		view := protocol.SeatView{
			Seat:         seat.String(),
			Name:         p.Name,
			Cards:        CardsToInfos(p.Hand),
			Score:        p.Score,
			ScoreVisible: len(p.Hand) > 0,
			Busted:       p.Busted,
			Standing:     p.Standing,
			Active:       p.Active,
			Turn:         hasTurn && seat == current,
		}
		if s.HidesHoleCard(seat) && len(view.Cards) > 0 {
			view.Cards[0] = protocol.CardInfo{Hidden: true}
			view.Score = 0
			view.ScoreVisible = false
		}
		seats = append(seats, view)
	}

	history := make([]protocol.HistoryEntry, len(s.History))
	for i, e := range s.History {
		history[i] = protocol.HistoryEntry{Result: string(e.Result), Amount: e.Amount}
	}

	return protocol.TableView{
		Status:    string(s.Status),
		Mode:      string(s.Mode),
		Balance:   s.Balance,
		Bet:       s.Bet,
		Message:   s.Message,
		Round:     s.Round,
		DeckCount: s.Deck.Len(),
		Seats:     seats,
		History:   history,
		Series:    ledger.BalanceSeries(initialBalance, s.History),
	}
}

// EntriesFromView 还原结算记录，用于远端客户端统计
func EntriesFromView(v protocol.TableView) []ledger.Entry {
	entries := make([]ledger.Entry, len(v.History))
	for i, h := range v.History {
		entries[i] = ledger.Entry{Result: ledger.Outcome(h.Result), Amount: h.Amount}
	}
	return entries
}
