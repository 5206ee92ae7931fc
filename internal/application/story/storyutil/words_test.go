package storyutil

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "  \n\t ", want: 0},
		{name: "single word", text: "hello", want: 1},
		{name: "mixed whitespace", text: "one  two\nthree\t four", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTailWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{name: "zero n", text: "one two three", n: 0, want: ""},
		{name: "fewer words than n", text: "one two", n: 5, want: "one two"},
		{name: "exact n", text: "one two three", n: 3, want: "one two three"},
		{name: "tail of longer text", text: "one two three four five", n: 2, want: "four five"},
		{name: "normalizes whitespace", text: "one\n\ntwo   three", n: 2, want: "two three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TailWords(tt.text, tt.n); got != tt.want {
				t.Errorf("TailWords(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
			}
		})
	}
}

func TestEndsProperly(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: false},
		{name: "period", text: "The end.", want: true},
		{name: "exclamation", text: "The end!", want: true},
		{name: "question", text: "The end?", want: true},
		{name: "closing double quote", text: `"Goodbye."`, want: true},
		{name: "closing single quote", text: "he said.'", want: true},
		{name: "trailing whitespace", text: "The end.\n\n", want: true},
		{name: "mid-sentence", text: "and then she", want: false},
		{name: "comma", text: "and then,", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EndsProperly(tt.text); got != tt.want {
				t.Errorf("EndsProperly(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
