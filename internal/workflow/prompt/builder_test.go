package prompt

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildStorySystemPrompt(t *testing.T) {
	got := BuildStorySystemPrompt()

	for _, want := range []string{
		fmt.Sprintf("between %d and %d words", StoryMinWords, StoryMaxWords),
		"1. Opening (500-800 words)",
		"2. Rising Action (1200-1800 words)",
		"3. Midpoint Shift (300-600 words)",
		"4. Climax (800-1200 words)",
		"5. Resolution (400-700 words)",
		"Provide ONLY the story text",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildStoryUserPromptTargets(t *testing.T) {
	tests := []struct {
		name       string
		maxWords   int
		wantTarget int
	}{
		{name: "explicit max words", maxWords: 6000, wantTarget: 4500},
		{name: "zero uses default", maxWords: 0, wantTarget: int(float64(DefaultMaxWords) * TargetWordRatio)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, targets := BuildStoryUserPrompt(StoryParams{Idea: "a lighthouse keeper", MaxWords: tt.maxWords})
			if targets.MinWords != StoryMinWords {
				t.Errorf("MinWords = %d, want %d", targets.MinWords, StoryMinWords)
			}
			if targets.MaxWords != StoryMaxWords {
				t.Errorf("MaxWords = %d, want %d", targets.MaxWords, StoryMaxWords)
			}
			if targets.TargetWords != tt.wantTarget {
				t.Errorf("TargetWords = %d, want %d", targets.TargetWords, tt.wantTarget)
			}
		})
	}
}

func TestBuildStoryUserPromptSections(t *testing.T) {
	params := StoryParams{
		Idea:  "a lighthouse keeper finds a message in a bottle",
		Theme: "isolation",
		Character: CharacterInput{
			Name:           "Mara",
			Description:    "a retired cartographer",
			Quirks:         []string{"hums sea shanties", "never locks doors"},
			Contradictions: "fears open water",
		},
		Genre: ResolveGenre("Horror"),
	}

	got, _ := BuildStoryUserPrompt(params)

	for _, want := range []string{
		"**Story Idea (Single Sharp Core):** a lighthouse keeper finds a message in a bottle",
		"- Name: Mara",
		"- Description: a retired cartographer",
		"- Quirks: hums sea shanties, never locks doors",
		"- Contradictions: fears open water",
		"**Theme:** isolation",
		"- Beginning: setup",
		"- Middle: rising dread",
		"- End: twist ending",
		"- Point of View: first_or_limited",
		"- Tone: dark",
		"- Sensory Details: Emphasize: sound, touch, atmosphere",
		"**CRITICAL WORD COUNT REQUIREMENT:**",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestBuildStoryUserPromptOmitsEmptySections(t *testing.T) {
	got, _ := BuildStoryUserPrompt(StoryParams{Idea: "just an idea"})

	if strings.Contains(got, "**Character:**") {
		t.Error("character section present for zero character")
	}
	if strings.Contains(got, "**Theme:**") {
		t.Error("theme section present for empty theme")
	}
	// 默认体裁仍然产出结构与叙事声音区块
	if !strings.Contains(got, "**Story Structure:**") {
		t.Error("structure section missing for default genre")
	}
	if !strings.Contains(got, "- Tone: balanced") {
		t.Error("narrative voice missing default tone")
	}
}

func TestGenreGuidanceToneOverridesPace(t *testing.T) {
	tests := []struct {
		genre string
		want  string
	}{
		// Horror 是 dark/fast，语气覆盖节奏默认值
		{genre: "Horror", want: "Build dread and tension, escalate fear"},
		{genre: "Romance", want: "Develop emotional connections, build warmth"},
		{genre: "Thriller", want: "Maintain high energy, escalate stakes rapidly"},
		// Literary 没有特殊语气，落到 deliberate 节奏默认
		{genre: "Literary", want: "Develop tension gradually, allow moments to breathe"},
	}

	for _, tt := range tests {
		t.Run(tt.genre, func(t *testing.T) {
			got, _ := BuildStoryUserPrompt(StoryParams{Idea: "x", Genre: ResolveGenre(tt.genre)})
			if !strings.Contains(got, "Rising Action Focus: "+tt.want) {
				t.Errorf("guidance for %s missing %q", tt.genre, tt.want)
			}
		})
	}
}

func TestLiteraryGuidanceIncludesStyle(t *testing.T) {
	got, _ := BuildStoryUserPrompt(StoryParams{Idea: "x", Genre: ResolveGenre("Literary")})
	if !strings.Contains(got, "Writing Style: Adopt a literary writing style") {
		t.Error("literary guidance missing writing style entry")
	}
}

func TestBuildRevisionUserPrompt(t *testing.T) {
	body := strings.TrimSpace(strings.Repeat("word ", 5000))
	feedback := []string{"make the ending darker", "cut the second flashback"}

	got, targets := BuildRevisionUserPrompt(body, feedback, 6000)

	if targets.MaxWords != 6000 {
		t.Errorf("MaxWords = %d, want 6000", targets.MaxWords)
	}
	if targets.TargetWords != 4500 {
		t.Errorf("TargetWords = %d, want 4500", targets.TargetWords)
	}
	if !strings.Contains(got, "1. make the ending darker") {
		t.Error("first feedback item not numbered")
	}
	if !strings.Contains(got, "2. cut the second flashback") {
		t.Error("second feedback item not numbered")
	}
	if !strings.Contains(got, "Keep the revised story between 4000 and 6000 words") {
		t.Error("in-range word count message missing")
	}
}

func TestBuildRevisionUserPromptWordCountStates(t *testing.T) {
	tests := []struct {
		name      string
		bodyWords int
		maxWords  int
		want      string
	}{
		{
			name:      "under minimum asks to expand",
			bodyWords: 3000,
			maxWords:  6000,
			want:      "below the 4000 word minimum. Expand it to at least 4000 words",
		},
		{
			name:      "over maximum asks to tighten",
			bodyWords: 7000,
			maxWords:  6000,
			want:      "above the 6000 word maximum. Tighten it to at most 6000 words",
		},
		{
			name:      "max words capped at story ceiling",
			bodyWords: 7000,
			maxWords:  9000,
			want:      "above the 6500 word maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.TrimSpace(strings.Repeat("word ", tt.bodyWords))
			got, _ := BuildRevisionUserPrompt(body, []string{"revise"}, tt.maxWords)
			if !strings.Contains(got, tt.want) {
				t.Errorf("revision prompt missing %q", tt.want)
			}
		})
	}
}

func TestBuildConclusionPrompt(t *testing.T) {
	got := BuildConclusionPrompt("she reached for the handle")

	if !strings.Contains(got, "she reached for the handle") {
		t.Error("conclusion prompt missing story tail")
	}
	if !strings.Contains(got, "200-400 words") {
		t.Error("conclusion prompt missing word range")
	}
	if !strings.Contains(got, "Provide ONLY the new concluding text") {
		t.Error("conclusion prompt missing output constraint")
	}
}

func TestBuildContinuationPrompt(t *testing.T) {
	got := BuildContinuationPrompt("the lights went out", 1200)

	if !strings.Contains(got, "the lights went out") {
		t.Error("continuation prompt missing story tail")
	}
	if !strings.Contains(got, "at least 1200 more words") {
		t.Error("continuation prompt missing remaining word count")
	}
	if !strings.Contains(got, "Provide ONLY the continuation text") {
		t.Error("continuation prompt missing output constraint")
	}
}
