package draft

import (
	"strings"
	"testing"
)

// storyOfWords 生成 n 个单词、以句号收尾的文本
func storyOfWords(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n-1)) + " end."
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		minWords int
		want     bool
	}{
		{
			name:     "empty text",
			text:     "",
			minWords: 100,
			want:     false,
		},
		{
			// 截断信号优先于长度
			name:     "long but truncated mid-sentence",
			text:     strings.Repeat("word ", 200) + "and then she",
			minWords: 100,
			want:     false,
		},
		{
			name:     "ends properly at min words",
			text:     storyOfWords(100),
			minWords: 100,
			want:     true,
		},
		{
			name:     "ends properly at soft threshold",
			text:     storyOfWords(80),
			minWords: 100,
			want:     true,
		},
		{
			name:     "ends properly below soft threshold",
			text:     storyOfWords(79),
			minWords: 100,
			want:     false,
		},
		{
			name:     "ends with closing quote",
			text:     strings.Repeat("word ", 119) + `"Goodbye."`,
			minWords: 100,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsComplete(tt.text, tt.minWords); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}
