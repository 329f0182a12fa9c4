package sound

import (
	"github.com/palemoky/sette-e-mezzo/internal/game/ledger"
	"github.com/palemoky/sette-e-mezzo/internal/game/table"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
)

// Cue 音效名，对应 assets/sounds 下的文件名（不含扩展名）
type Cue string

const (
	CueDeal Cue = "deal"
	CueCard Cue = "card"
	CueBust Cue = "bust"
	CueWin  Cue = "win"
	CueLoss Cue = "loss"
)

// CueFor 比较前后两个视图，返回应播放的音效
func CueFor(prev, next protocol.TableView) (Cue, bool) {
	result := string(table.StatusResult)
	if next.Status == result && prev.Status != result && len(next.History) > 0 {
		if ledger.Outcome(next.History[len(next.History)-1].Result) == ledger.Win {
			return CueWin, true
		}
		return CueLoss, true
	}

	if next.Round != prev.Round {
		if prev.Status == string(table.StatusBetting) && cardCount(next) > 0 {
			return CueDeal, true
		}
		return "", false
	}

	for _, seat := range next.Seats {
		before, _ := prev.Seat(seat.Seat)
		if seat.Busted && !before.Busted {
			return CueBust, true
		}
	}
	if cardCount(next) > cardCount(prev) {
		return CueCard, true
	}
	return "", false
}

func cardCount(v protocol.TableView) int {
	n := 0
	for _, s := range v.Seats {
		n += len(s.Cards)
	}
	return n
}
