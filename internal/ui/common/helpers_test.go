package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "Banco", 8, "Banco"},
		{"exact", "CPU 1", 5, "CPU 1"},
		{"long", "Giocatore", 5, "Gioc…"},
		{"multibyte", "庄家庄家庄家", 3, "庄家…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TruncateName(tt.input, tt.maxLen))
		})
	}
}
