package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
)

func TestCPUPolicy(t *testing.T) {
	t.Parallel()

	p := CPUPolicy()
	assert.True(t, p.ShouldDraw([]card.Card{c(4), fante}, Context{}))
	assert.False(t, p.ShouldDraw([]card.Card{c(5)}, Context{}))
	assert.False(t, p.ShouldDraw([]card.Card{matta}, Context{}))
	assert.False(t, p.ShouldDraw([]card.Card{c(7), c(3)}, Context{}))
}

func TestDealerPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		hand   []card.Card
		target float64
		want   bool
	}{
		{"below target", []card.Card{c(3)}, 5, true},
		{"matches target", []card.Card{c(5)}, 5, false},
		{"above target", []card.Card{c(6)}, 5, false},
		{"all busted below fallback", []card.Card{c(4)}, 0, true},
		{"all busted at fallback", []card.Card{c(4), fante}, 0, false},
		{"never draws at 7.5", []card.Card{c(7), fante}, 7.5, false},
		{"never draws when busted", []card.Card{c(7), c(2)}, 7.5, false},
		{"chases 7.5", []card.Card{c(7)}, 7.5, true},
	}

	p := DealerPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.ShouldDraw(tt.hand, Context{Target: tt.target}))
		})
	}
}

func TestDrawPolicyFunc(t *testing.T) {
	t.Parallel()

	never := DrawPolicyFunc(func([]card.Card, Context) bool { return false })
	assert.False(t, never.ShouldDraw(nil, Context{}))
	assert.True(t, ThresholdPolicy(2).ShouldDraw([]card.Card{c(1)}, Context{}))
}
