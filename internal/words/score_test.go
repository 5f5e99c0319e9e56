package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"Cloud", 45},       // 25 + cloud
		{"Data", 20},        // no bonus
		{"Enterprise", 65},  // 50 + enterprise
		{"SCALE", 40},       // 25 + scale
		{"mail", 40},        // 20 + "ai"
		{"Quantum", 60},     // 35 + quantum
		{"saasgrowth", 85},  // 50 + saas + growth
		{"A", 5},            // single letter, "a" alone is not "ai"
		{"", 0},
		{"blockchainrevenuecloud", 100}, // 110 + 20 + 25 + 15, capped
		{"aimlapi", 55},                 // one group pays once: 35 + 20
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.word))
		})
	}
}

func TestScore_DeterministicAndBounded(t *testing.T) {
	inputs := []string{"", "x", "Cloud", "supercalifragilisticexpialidocious", "neuralcryptoquantum"}
	for _, w := range inputs {
		first := Score(w)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Score(w), "Score(%q) not deterministic", w)
		}
		assert.GreaterOrEqual(t, first, 0)
		assert.LessOrEqual(t, first, MaxScore)
	}
}

func TestIsDisruptive(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"Cloud", true},
		{"FinTech", true},
		{"smartwatch", true},
		{"Rain", true},
		{"Data", false},
		// score terms that are not disruptive terms
		{"Enterprise", false},
		{"Blockchain", true}, // contains "ai"
		{"Quantum", false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDisruptive(tt.word))
		})
	}
}
