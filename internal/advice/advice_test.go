package advice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/sette-e-mezzo/internal/config"
	"github.com/palemoky/sette-e-mezzo/internal/game/card"
)

func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		advisor Advisor
		want    string
	}{
		{
			name:    "passes text through trimmed",
			advisor: AdvisorFunc(func(context.Context, Request) (string, error) { return "  STAI!  ", nil }),
			want:    "STAI!",
		},
		{
			name:    "error gives failure fallback",
			advisor: AdvisorFunc(func(context.Context, Request) (string, error) { return "", errors.New("quota") }),
			want:    FallbackFailure,
		},
		{
			name:    "empty text gives empty fallback",
			advisor: AdvisorFunc(func(context.Context, Request) (string, error) { return " ", nil }),
			want:    FallbackEmpty,
		},
		{
			name:    "panic is recovered",
			advisor: AdvisorFunc(func(context.Context, Request) (string, error) { panic("boom") }),
			want:    FallbackFailure,
		},
		{
			name:    "nil advisor",
			advisor: nil,
			want:    FallbackFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Safe(context.Background(), tt.advisor, Request{}))
		})
	}
}

func TestPrompt(t *testing.T) {
	t.Parallel()

	dealer := card.New(card.Swords, 7)
	p := Prompt(Request{
		Hand:       []card.Card{card.New(card.Cups, 3), card.New(card.Coins, card.Jack)},
		DealerCard: &dealer,
		Score:      3.5,
	})
	assert.Contains(t, p, "3 di Coppe, Fante di Denari")
	assert.Contains(t, p, "Punteggio attuale: 3.5.")
	assert.Contains(t, p, "La carta visibile del banco è: 7 di Spade.")
	assert.Contains(t, p, "massimo 20 parole")

	assert.Contains(t, Prompt(Request{}), "Sconosciuta")
}

func TestHeuristic(t *testing.T) {
	t.Parallel()

	strong := card.New(card.Swords, 6)
	weak := card.New(card.Swords, 2)

	tests := []struct {
		name   string
		req    Request
		prefix string
	}{
		{"low score hits", Request{Hand: []card.Card{card.New(card.Cups, 3)}, Score: 3}, "CARTA"},
		{"high score stands", Request{Hand: []card.Card{card.New(card.Cups, 6)}, Score: 6}, "STAI"},
		{"middle vs strong dealer", Request{Hand: []card.Card{card.New(card.Cups, 5)}, Score: 5, DealerCard: &strong}, "CARTA"},
		{"middle vs weak dealer", Request{Hand: []card.Card{card.New(card.Cups, 5)}, Score: 5, DealerCard: &weak}, "STAI"},
		{"four and a half vs strong dealer", Request{Hand: []card.Card{card.New(card.Cups, 4), card.New(card.Cups, card.Jack)}, Score: 4.5, DealerCard: &strong}, "CARTA: il banco"},
		{"four and a half vs weak dealer", Request{Hand: []card.Card{card.New(card.Cups, 4), card.New(card.Cups, card.Jack)}, Score: 4.5, DealerCard: &weak}, "STAI: un punteggio"},
		{"five and a half without dealer card", Request{Hand: []card.Card{card.New(card.Cups, 5), card.New(card.Cups, card.Knight)}, Score: 5.5}, "STAI: un punteggio"},
		{"seven and a half", Request{Score: 7.5}, "Sette e mezzo"},
		{"wild in hand", Request{Hand: []card.Card{card.New(card.Coins, card.King)}, Score: 7}, "Hai la Matta"},
	}

	h := NewHeuristic()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text, err := h.Advise(context.Background(), tt.req)
			assert.NoError(t, err)
			assert.Contains(t, text, tt.prefix)
		})
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Advice
	assert.IsType(t, &Heuristic{}, FromConfig(cfg, nil))

	cfg.Provider = config.ProviderGemini
	assert.IsType(t, &Heuristic{}, FromConfig(cfg, nil), "no key falls back")

	cfg.APIKey = "k"
	assert.IsType(t, &Cached{}, FromConfig(cfg, nil))
}
