package storyutil

import (
	"strings"
	"testing"
)

func TestStripMetadata(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "heading title line",
			text: "# Title: The Last Train\n\nThe story begins here.",
			want: "The story begins here.",
		},
		{
			name: "heading story line",
			text: "## Story\n\nOnce upon a time.",
			want: "Once upon a time.",
		},
		{
			name: "bold label with inner colon",
			text: "**Title:** The Last Train\n\nThe story begins here.",
			want: "The story begins here.",
		},
		{
			name: "bold word count label",
			text: "**Word Count**: 5000\n\nThe story begins here.",
			want: "The story begins here.",
		},
		{
			name: "plain label",
			text: "Title: The Last Train\nThe story begins here.",
			want: "The story begins here.",
		},
		{
			name: "mid-document label removes its blank line",
			text: "The first scene ends.\n\nTitle: Leaked Header\n\nThe second scene begins.",
			want: "The first scene ends.\n\nThe second scene begins.",
		},
		{
			name: "no metadata untouched",
			text: "She opened the door. The title of the book was gone.",
			want: "She opened the door. The title of the book was gone.",
		},
		{
			name: "label mid-line preserved",
			text: "He whispered Story: and fell silent.",
			want: "He whispered Story: and fell silent.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMetadata(tt.text); got != tt.want {
				t.Errorf("StripMetadata() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bold asterisk",
			text: "She **never** came back.",
			want: "She never came back.",
		},
		{
			name: "italic asterisk",
			text: "He *almost* believed her.",
			want: "He almost believed her.",
		},
		{
			name: "bold before italic",
			text: "**bold** and *italic* together",
			want: "bold and italic together",
		},
		{
			name: "underscore emphasis",
			text: "It was __loud__ and _sudden_ at once.",
			want: "It was loud and sudden at once.",
		},
		{
			name: "link keeps text",
			text: "She read [the letter](http://example.com) twice.",
			want: "She read the letter twice.",
		},
		{
			name: "heading marker",
			text: "## Part Two\nThe rain returned.",
			want: "Part Two\nThe rain returned.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdown(tt.text); got != tt.want {
				t.Errorf("CleanMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	text := "# Title: Ghosts\n\n**Word Count:** 5000\n\nShe **never** told [him](x) the *truth*.\n"

	once := Sanitize(text)
	twice := Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize is not idempotent: %q != %q", once, twice)
	}
	if strings.ContainsAny(once, "*#[") {
		t.Errorf("Sanitize left markdown markers: %q", once)
	}
	if want := "She never told him the truth."; once != want {
		t.Errorf("Sanitize() = %q, want %q", once, want)
	}
}
