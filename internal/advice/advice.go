// Package advice produces short strategy hints for the player's turn.
package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/game/rule"
	"github.com/palemoky/sette-e-mezzo/internal/logger"
)

// 兜底文案
const (
	FallbackFailure = "Il banco sembra nervoso... decidi tu!"
	FallbackEmpty   = "Non sono sicuro, segui il tuo istinto!"
)

// Request 一次建议请求。DealerCard 为 nil 表示庄家还没有牌。
type Request struct {
	Hand       []card.Card
	DealerCard *card.Card
	Score      float64
}

// Advisor 给出建议文本，失败时返回 error
type Advisor interface {
	Advise(ctx context.Context, req Request) (string, error)
}

// AdvisorFunc 函数适配器
type AdvisorFunc func(ctx context.Context, req Request) (string, error)

func (f AdvisorFunc) Advise(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Safe 调用 a 并保证返回可展示的文本：出错或 panic 时返回 FallbackFailure，空文本返回 FallbackEmpty
func Safe(ctx context.Context, a Advisor, req Request) (text string) {
	if a == nil {
		return FallbackFailure
	}
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			text = FallbackFailure
		}
	}()

	text, err := a.Advise(ctx, req)
	if err != nil {
		logger.LogError("advice failed: %v", err)
		return FallbackFailure
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackEmpty
	}
	return text
}

// Prompt 生成发给语言模型的意大利语提示
func Prompt(req Request) string {
	dealer := "Sconosciuta"
	if req.DealerCard != nil {
		dealer = req.DealerCard.Name()
	}

	var b strings.Builder
	b.WriteString("Stai giocando a \"7 e Mezzo\" (Sette e mezzo).\n")
	b.WriteString("Le carte sono: 1-7 valgono il loro valore, Fante/Cavallo/Re valgono 0.5. ")
	b.WriteString("Il Re di Denari è la Matta (valore variabile).\n")
	fmt.Fprintf(&b, "La mano del giocatore è: %s.\n", card.Describe(req.Hand))
	fmt.Fprintf(&b, "Punteggio attuale: %s.\n", rule.FormatScore(req.Score))
	fmt.Fprintf(&b, "La carta visibile del banco è: %s.\n\n", dealer)
	b.WriteString("Cosa dovrebbe fare il giocatore? \"CARTA\" (Hit) o \"STAI\" (Stand)?\n")
	b.WriteString("Fornisci una risposta breve e incoraggiante in italiano (massimo 20 parole).")
	return b.String()
}
