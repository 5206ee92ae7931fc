package prompt

import "testing"

func TestResolveGenre(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "exact name", input: "Horror", want: "Horror"},
		{name: "lowercase", input: "horror", want: "Horror"},
		{name: "surrounding whitespace", input: "  Thriller  ", want: "Thriller"},
		{name: "empty falls back to default", input: "", want: DefaultGenre},
		{name: "unknown falls back to default", input: "cookbook", want: DefaultGenre},
		{name: "crime noir alias", input: "Crime / Noir", want: "Thriller"},
		{name: "mystery alias", input: "mystery", want: "Thriller"},
		{name: "sci-fi alias", input: "Sci-Fi", want: "Speculative"},
		{name: "science fiction alias", input: "science fiction", want: "Speculative"},
		{name: "drama alias", input: "drama", want: "Literary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveGenre(tt.input)
			if got == nil {
				t.Fatalf("ResolveGenre(%q) = nil", tt.input)
			}
			if got.Name != tt.want {
				t.Errorf("ResolveGenre(%q).Name = %q, want %q", tt.input, got.Name, tt.want)
			}
		})
	}
}

func TestResolveGenreAliasSharesConfig(t *testing.T) {
	// 别名与主名必须解析到同一个配置实例
	if ResolveGenre("Crime / Noir") != ResolveGenre("Thriller") {
		t.Error("crime / noir alias does not share the Thriller config")
	}
	if ResolveGenre("fantasy") != ResolveGenre("Speculative") {
		t.Error("fantasy alias does not share the Speculative config")
	}
}

func TestHorrorGenreConstraints(t *testing.T) {
	g := ResolveGenre("Horror")

	if g.Framework != "tension_escalation" {
		t.Errorf("Framework = %q, want tension_escalation", g.Framework)
	}
	wantOutline := []string{"setup", "rising dread", "twist ending"}
	if len(g.Outline) != len(wantOutline) {
		t.Fatalf("Outline length = %d, want %d", len(g.Outline), len(wantOutline))
	}
	for i, beat := range wantOutline {
		if g.Outline[i] != beat {
			t.Errorf("Outline[%d] = %q, want %q", i, g.Outline[i], beat)
		}
	}
	if g.Constraints.Tone != "dark" || g.Constraints.Pace != "fast" {
		t.Errorf("Constraints = %+v, want dark/fast", g.Constraints)
	}
	if g.Constraints.POVPreference != "first_or_limited" {
		t.Errorf("POVPreference = %q, want first_or_limited", g.Constraints.POVPreference)
	}
}

func TestGenreNamesCoverIndex(t *testing.T) {
	names := GenreNames()
	if len(names) != 6 {
		t.Fatalf("GenreNames() returned %d names, want 6", len(names))
	}
	for _, name := range names {
		if ResolveGenre(name).Name != name {
			t.Errorf("ResolveGenre(%q) does not round-trip", name)
		}
	}
}

func TestGenreAliasesAreCopies(t *testing.T) {
	aliases := GenreAliases()
	aliases["mystery"] = "Horror"
	if ResolveGenre("mystery").Name != "Thriller" {
		t.Error("mutating the returned alias map changed genre resolution")
	}
}
