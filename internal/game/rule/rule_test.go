package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
)

var (
	matta = card.New(card.Coins, card.King)
	fante = card.New(card.Cups, card.Jack)
	re    = card.New(card.Swords, card.King)
)

func c(r card.Rank) card.Card { return card.New(card.Clubs, r) }

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hand []card.Card
		want float64
	}{
		{"empty hand", nil, 0},
		{"single ace", []card.Card{c(1)}, 1},
		{"faces are half", []card.Card{fante, re}, 1},
		{"plain sum", []card.Card{c(3), c(4), fante}, 7.5},
		{"plain bust", []card.Card{c(7), c(2)}, 9},
		{"wild alone is seven", []card.Card{matta}, 7},
		{"wild with five", []card.Card{matta, c(5)}, 7},
		{"wild with half card", []card.Card{matta, fante}, 7.5},
		{"wild with six and half", []card.Card{c(6), fante, matta}, 7.5},
		{"wild with seven forces bust", []card.Card{matta, c(7)}, 8},
		{"wild with base 7.5 adds one", []card.Card{matta, c(6), fante, re, card.New(card.Cups, card.Knight)}, 8.5},
		{"wild with base over limit adds one", []card.Card{c(7), c(3), matta}, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Score(tt.hand))
		})
	}
}

func TestScore_NoWildEqualsSum(t *testing.T) {
	t.Parallel()

	deck := card.Ordered()
	for i := 0; i+3 <= len(deck); i += 3 {
		hand := deck[i : i+3]
		if card.WildIndex(hand) >= 0 {
			continue
		}
		sum := 0.0
		for _, h := range hand {
			sum += h.Value
		}
		assert.Equal(t, sum, Score(hand))
	}
}

func TestWildValue_Range(t *testing.T) {
	t.Parallel()

	for base := 0.0; base <= 10; base += 0.5 {
		v := WildValue(base)
		assert.GreaterOrEqual(t, v, 1.0)
		assert.LessOrEqual(t, v, 7.0)
		assert.Equal(t, v, float64(int(v)), "wild value must be whole")
		if base+1 <= BustLimit {
			assert.LessOrEqual(t, base+v, BustLimit)
		}
	}
}

func TestIsBustAndFormat(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBust(7.5))
	assert.True(t, IsBust(8))
	assert.Equal(t, "7", FormatScore(7))
	assert.Equal(t, "7.5", FormatScore(7.5))
	assert.Equal(t, "0.5", FormatScore(0.5))
}
