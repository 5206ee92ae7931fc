package draft

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "four chars", text: "abcd", want: 11},
		{name: "forty chars", text: strings.Repeat("a", 40), want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokensForWords(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{words: 0, want: 10},
		{words: 1000, want: 1585},
		{words: 5000, want: 7885},
	}

	for _, tt := range tests {
		if got := TokensForWords(tt.words); got != tt.want {
			t.Errorf("TokensForWords(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestMaxOutputTokens(t *testing.T) {
	calc := NewBudgetCalculator(32000, 4000, 8192)

	tests := []struct {
		name        string
		prompt      string
		targetWords int
		want        int
	}{
		{
			// 无目标字数时受供应商单次输出上限约束
			name:        "no target words caps at provider max",
			prompt:      "write a story",
			targetWords: 0,
			want:        8192,
		},
		{
			// 目标字数换算的需求低于上限时按需分配
			name:        "target words below provider max",
			prompt:      "write a story",
			targetWords: 5000,
			want:        7885,
		},
		{
			// 小目标也至少拿到最小预算
			name:        "small target floors at min tokens",
			prompt:      "write a story",
			targetWords: 400,
			want:        4000,
		},
		{
			// 提示词占满窗口时回落到最小预算
			name:        "overflowed prompt falls back to min tokens",
			prompt:      strings.Repeat("x", 200000),
			targetWords: 6000,
			want:        4000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.MaxOutputTokens(tt.prompt, "", tt.targetWords); got != tt.want {
				t.Errorf("MaxOutputTokens() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverflowed(t *testing.T) {
	calc := NewBudgetCalculator(32000, 4000, 8192)

	if calc.Overflowed("short prompt", "short system") {
		t.Error("short prompt should not overflow a 32k window")
	}
	if !calc.Overflowed(strings.Repeat("x", 200000), "") {
		t.Error("200k char prompt should overflow a 32k window")
	}
}
