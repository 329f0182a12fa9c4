package advice

import (
	"context"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/game/rule"
)

// Heuristic 离线建议：根据剩余空间和庄家明牌判断
type Heuristic struct{}

// NewHeuristic 创建离线建议器
func NewHeuristic() *Heuristic { return &Heuristic{} }

// Advise 不会失败
func (h *Heuristic) Advise(_ context.Context, req Request) (string, error) {
	switch {
	case rule.IsBust(req.Score):
		return "Hai già sballato, aspetta la prossima mano.", nil
	case req.Score == rule.BustLimit:
		return "Sette e mezzo! Stai e goditi la mano.", nil
	case card.WildIndex(req.Hand) >= 0:
		return "Hai la Matta: resta fermo, vale già il massimo possibile.", nil
	case req.Score <= 4:
		return "CARTA: hai ancora molto margine, chiedi pure.", nil
	case req.Score >= 6:
		return "STAI: il rischio di sballare è troppo alto.", nil
	}

	// 4.5 到 5.5 之间看庄家明牌
	if req.DealerCard != nil && req.DealerCard.Value >= 6 {
		return "CARTA: il banco parte forte, serve qualcosa in più.", nil
	}
	return "STAI: un punteggio discreto, lascia rischiare il banco.", nil
}
