package prompt

import (
	"fmt"
	"strings"
)

// 篇幅边界与五段结构字数区间
const (
	StoryMinWords   = 4000
	StoryMaxWords   = 6500
	DefaultMaxWords = 7500

	// TargetWordRatio 目标字数与上限的比值，给模型留出余量
	TargetWordRatio = 0.75

	openingMinWords    = 500
	openingMaxWords    = 800
	risingMinWords     = 1200
	risingMaxWords     = 1800
	midpointMinWords   = 300
	midpointMaxWords   = 600
	climaxMinWords     = 800
	climaxMaxWords     = 1200
	resolutionMinWords = 400
	resolutionMaxWords = 700
)

// CharacterInput 提示词中的主角画像
type CharacterInput struct {
	Name           string
	Description    string
	Quirks         []string
	Contradictions string
}

// IsZero 判断画像是否为空
func (c CharacterInput) IsZero() bool {
	return c.Name == "" && c.Description == "" && len(c.Quirks) == 0 && c.Contradictions == ""
}

// StoryParams 首轮生成提示词的全部输入
type StoryParams struct {
	Idea      string
	Theme     string
	Character CharacterInput
	Genre     *GenreConfig
	// MaxWords 为 0 时取 DefaultMaxWords
	MaxWords int
}

// WordTargets 本次生成的字数边界
type WordTargets struct {
	MinWords    int
	MaxWords    int
	TargetWords int
}

// BuildStorySystemPrompt 构建首轮生成的 system 提示词
func BuildStorySystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an expert short story writer who crafts complete, polished stories.\n\n")
	fmt.Fprintf(&b, "MANDATORY WORD COUNT: Every story must contain between %d and %d words. ", StoryMinWords, StoryMaxWords)
	b.WriteString("Stories shorter than the minimum are unacceptable.\n\n")
	b.WriteString("Structure every story in five stages:\n")
	fmt.Fprintf(&b, "1. Opening (%d-%d words): establish character, setting, and the seed of conflict\n", openingMinWords, openingMaxWords)
	fmt.Fprintf(&b, "2. Rising Action (%d-%d words): complications build, stakes escalate\n", risingMinWords, risingMaxWords)
	fmt.Fprintf(&b, "3. Midpoint Shift (%d-%d words): a reversal or revelation changes the trajectory\n", midpointMinWords, midpointMaxWords)
	fmt.Fprintf(&b, "4. Climax (%d-%d words): the central conflict reaches its peak\n", climaxMinWords, climaxMaxWords)
	fmt.Fprintf(&b, "5. Resolution (%d-%d words): consequences land, the story closes with intent\n\n", resolutionMinWords, resolutionMaxWords)
	b.WriteString("Quality requirements:\n")
	b.WriteString("- Show, don't tell; ground every scene in concrete sensory detail\n")
	b.WriteString("- Give the protagonist a clear want and a real obstacle\n")
	b.WriteString("- End with a complete, deliberate final sentence\n\n")
	b.WriteString("Provide ONLY the story text, without any metadata or headers.")
	return b.String()
}

// BuildStoryUserPrompt 构建首轮生成的 user 提示词并返回字数边界
func BuildStoryUserPrompt(params StoryParams) (string, WordTargets) {
	maxWords := params.MaxWords
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	targets := WordTargets{
		MinWords:    StoryMinWords,
		MaxWords:    StoryMaxWords,
		TargetWords: int(float64(maxWords) * TargetWordRatio),
	}

	genre := params.Genre
	if genre == nil {
		genre = ResolveGenre("")
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("**Story Idea (Single Sharp Core):** %s", params.Idea))

	if !params.Character.IsZero() {
		var cb strings.Builder
		cb.WriteString("**Character:**\n")
		fmt.Fprintf(&cb, "- Name: %s\n", params.Character.Name)
		fmt.Fprintf(&cb, "- Description: %s", params.Character.Description)
		if len(params.Character.Quirks) > 0 {
			fmt.Fprintf(&cb, "\n- Quirks: %s", strings.Join(params.Character.Quirks, ", "))
		}
		if params.Character.Contradictions != "" {
			fmt.Fprintf(&cb, "\n- Contradictions: %s", params.Character.Contradictions)
		}
		parts = append(parts, cb.String())
	}

	if params.Theme != "" {
		parts = append(parts, fmt.Sprintf("**Theme:** %s", params.Theme))
	}

	if len(genre.Outline) >= 3 {
		var sb strings.Builder
		sb.WriteString("**Story Structure:**\n")
		fmt.Fprintf(&sb, "- Beginning: %s\n", genre.Outline[0])
		fmt.Fprintf(&sb, "- Middle: %s\n", genre.Outline[1])
		fmt.Fprintf(&sb, "- End: %s", genre.Outline[2])
		parts = append(parts, sb.String())
	}

	var vb strings.Builder
	vb.WriteString("**Narrative Voice:**\n")
	fmt.Fprintf(&vb, "- Point of View: %s\n", genre.Constraints.POVPreference)
	fmt.Fprintf(&vb, "- Tone: %s\n", genre.Constraints.Tone)
	fmt.Fprintf(&vb, "- Pace: %s", genre.Constraints.Pace)
	parts = append(parts, vb.String())

	if guidance := genreGuidance(genre); len(guidance) > 0 {
		var gb strings.Builder
		gb.WriteString("**Genre-Specific Guidance:**")
		for _, g := range guidance {
			fmt.Fprintf(&gb, "\n- %s: %s", g.label, g.text)
		}
		parts = append(parts, gb.String())
	}

	var wb strings.Builder
	wb.WriteString("**CRITICAL WORD COUNT REQUIREMENT:**\n")
	fmt.Fprintf(&wb, "- Write AT LEAST %d words. This is a hard minimum.\n", targets.MinWords)
	fmt.Fprintf(&wb, "- Aim for approximately %d words.\n", targets.TargetWords)
	fmt.Fprintf(&wb, "- Do not exceed %d words.\n", targets.MaxWords)
	wb.WriteString("- Count carefully. A story under the minimum is incomplete.")
	parts = append(parts, wb.String())

	return strings.Join(parts, "\n\n"), targets
}

type guidanceEntry struct {
	label string
	text  string
}

// genreGuidance 按体裁约束推导写作指引，语气覆盖节奏默认值
func genreGuidance(genre *GenreConfig) []guidanceEntry {
	c := genre.Constraints
	var entries []guidanceEntry

	focus := ""
	switch c.Pace {
	case "fast":
		focus = "Build momentum quickly, escalate tension rapidly"
	case "deliberate":
		focus = "Develop tension gradually, allow moments to breathe"
	case "compressed":
		focus = "Maintain tight pacing, maximize impact per word"
	}
	switch {
	case c.Tone == "dark" || hasKeyword(c.GenreKeywords, "horror"):
		focus = "Build dread and tension, escalate fear"
	case c.Tone == "warm":
		focus = "Develop emotional connections, build warmth"
	case c.Tone == "urgent":
		focus = "Maintain high energy, escalate stakes rapidly"
	}
	if focus != "" {
		entries = append(entries, guidanceEntry{"Rising Action Focus", focus})
	}

	if len(c.SensoryFocus) > 0 {
		entries = append(entries, guidanceEntry{
			"Sensory Details",
			fmt.Sprintf("Emphasize: %s", strings.Join(c.SensoryFocus, ", ")),
		})
	}

	if c.Style != "" {
		entries = append(entries, guidanceEntry{
			"Writing Style",
			fmt.Sprintf("Adopt a %s writing style", c.Style),
		})
	}

	return entries
}

func hasKeyword(keywords []string, target string) bool {
	for _, k := range keywords {
		if k == target {
			return true
		}
	}
	return false
}

// BuildRevisionSystemPrompt 构建修订轮的 system 提示词
func BuildRevisionSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an expert story editor. Revise the provided story according to the instructions ")
	b.WriteString("while preserving its voice, characters, and structure.\n\n")
	b.WriteString("Always return the COMPLETE revised story, not a diff or a summary of changes.\n\n")
	b.WriteString("Provide ONLY the story text, without any metadata or headers.")
	return b.String()
}

// BuildRevisionUserPrompt 构建修订轮的 user 提示词并返回字数边界
// feedback 逐条编号并入指令区
func BuildRevisionUserPrompt(body string, feedback []string, maxWords int) (string, WordTargets) {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	storyMax := maxWords
	if storyMax > StoryMaxWords {
		storyMax = StoryMaxWords
	}
	targets := WordTargets{
		MinWords:    StoryMinWords,
		MaxWords:    storyMax,
		TargetWords: int(float64(storyMax) * TargetWordRatio),
	}

	currentWords := len(strings.Fields(body))

	var b strings.Builder
	b.WriteString("**Current Story:**\n\n")
	b.WriteString(body)
	b.WriteString("\n\n**Revision Instructions:**")
	for i, item := range feedback {
		fmt.Fprintf(&b, "\n%d. %s", i+1, item)
	}
	b.WriteString("\n\n**Word Count:**\n")
	switch {
	case currentWords < targets.MinWords:
		fmt.Fprintf(&b, "The story currently has %d words, below the %d word minimum. Expand it to at least %d words while revising.", currentWords, targets.MinWords, targets.MinWords)
	case currentWords > targets.MaxWords:
		fmt.Fprintf(&b, "The story currently has %d words, above the %d word maximum. Tighten it to at most %d words while revising.", currentWords, targets.MaxWords, targets.MaxWords)
	default:
		fmt.Fprintf(&b, "The story currently has %d words. Keep the revised story between %d and %d words.", currentWords, targets.MinWords, targets.MaxWords)
	}

	return b.String(), targets
}

// BuildConclusionPrompt 构建收尾补写提示词
// 故事够长但截断在半句时使用，要求补一段明确的结尾
func BuildConclusionPrompt(tail string) string {
	var b strings.Builder
	b.WriteString("The following is the ending portion of a short story that was cut off mid-thought:\n\n")
	b.WriteString(tail)
	b.WriteString("\n\nWrite a conclusion of 200-400 words that brings the story to a complete, deliberate close. ")
	b.WriteString("Continue seamlessly from the text above. Do not repeat any of it. ")
	b.WriteString("Provide ONLY the new concluding text.")
	return b.String()
}

// BuildContinuationPrompt 构建续写提示词
// remaining 为至少还需补充的字数
func BuildContinuationPrompt(tail string, remaining int) string {
	var b strings.Builder
	b.WriteString("The following is the ending portion of an unfinished short story:\n\n")
	b.WriteString(tail)
	fmt.Fprintf(&b, "\n\nContinue the story from exactly where it leaves off, adding at least %d more words. ", remaining)
	b.WriteString("Maintain the same voice, tense, and point of view. Do not repeat or summarize earlier text. ")
	b.WriteString("If the story reaches its natural end within this continuation, close it with a complete final sentence. ")
	b.WriteString("Provide ONLY the continuation text.")
	return b.String()
}
