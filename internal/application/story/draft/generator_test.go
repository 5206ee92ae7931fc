package draft

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"shortstory-ai-api/internal/workflow/port"
	"shortstory-ai-api/pkg/errors"
)

type scriptedCall struct {
	text string
	err  error
}

// scriptedGenerator 按脚本逐次返回预设结果并记录请求
type scriptedGenerator struct {
	script []scriptedCall
	calls  []port.GenerateRequest
}

func (g *scriptedGenerator) Generate(_ context.Context, req port.GenerateRequest) (string, error) {
	g.calls = append(g.calls, req)
	if len(g.script) == 0 {
		return "", stderrors.New("script exhausted")
	}
	next := g.script[0]
	g.script = g.script[1:]
	return next.text, next.err
}

func testOptions(minWords int) Options {
	return Options{
		Genre:       "Horror",
		MinWords:    minWords,
		TargetWords: minWords,
		MaxAttempts: 3,
		Provider:    "openai",
		Model:       "gpt-4o-mini",
	}
}

func newTestGenerator(script ...scriptedCall) (*Generator, *scriptedGenerator) {
	textGen := &scriptedGenerator{script: script}
	budget := NewBudgetCalculator(32000, 4000, 8192)
	return NewGenerator(textGen, budget), textGen
}

func TestGenerateCompleteFirstPass(t *testing.T) {
	gen, textGen := newTestGenerator(
		scriptedCall{text: storyOfWords(120)},
	)

	result, err := gen.Generate(context.Background(), "system", "user", testOptions(100))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.ContinuationCalls != 0 {
		t.Errorf("ContinuationCalls = %d, want 0", result.ContinuationCalls)
	}
	if result.UnderLength {
		t.Error("UnderLength = true for a complete 120-word story")
	}
	if result.WordCount != 120 {
		t.Errorf("WordCount = %d, want 120", result.WordCount)
	}
	if len(textGen.calls) != 1 {
		t.Fatalf("LLM call count = %d, want 1", len(textGen.calls))
	}
	if textGen.calls[0].SystemPrompt != "system" {
		t.Errorf("initial call SystemPrompt = %q, want %q", textGen.calls[0].SystemPrompt, "system")
	}
}

func TestGenerateSoftAcceptSkipsContinuation(t *testing.T) {
	// 85% 最小字数且收在句号上：软接受生效，不得追加续写调用
	gen, textGen := newTestGenerator(
		scriptedCall{text: storyOfWords(85)},
	)

	result, err := gen.Generate(context.Background(), "system", "user", testOptions(100))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.ContinuationCalls != 0 {
		t.Errorf("ContinuationCalls = %d, want 0", result.ContinuationCalls)
	}
	if len(textGen.calls) != 1 {
		t.Fatalf("LLM call count = %d, want 1", len(textGen.calls))
	}
	if !result.UnderLength {
		t.Error("UnderLength = false, want true for 85 words against min 100")
	}
}

func TestGenerateInitialFailurePropagates(t *testing.T) {
	gen, _ := newTestGenerator(
		scriptedCall{err: stderrors.New("provider unavailable")},
	)

	_, err := gen.Generate(context.Background(), "system", "user", testOptions(100))
	if err == nil {
		t.Fatal("Generate() error = nil, want generation failure")
	}
	if !errors.IsAppError(err) {
		t.Fatalf("error %v is not an AppError", err)
	}
	if appErr := errors.AsAppError(err); appErr.Code != errors.CodeGenerationFailed {
		t.Errorf("error code = %s, want %s", appErr.Code, errors.CodeGenerationFailed)
	}
}

func TestGenerateContinuationCompletes(t *testing.T) {
	// 首轮太短且截断，一轮续写后达标
	gen, textGen := newTestGenerator(
		scriptedCall{text: strings.Repeat("word ", 49) + "and then"},
		scriptedCall{text: storyOfWords(60)},
	)

	result, err := gen.Generate(context.Background(), "system", "user", testOptions(100))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.ContinuationCalls != 1 {
		t.Errorf("ContinuationCalls = %d, want 1", result.ContinuationCalls)
	}
	if result.UnderLength {
		t.Errorf("UnderLength = true with %d words", result.WordCount)
	}
	if result.WordCount < 100 {
		t.Errorf("WordCount = %d, want >= 100", result.WordCount)
	}
	if len(textGen.calls) != 2 {
		t.Fatalf("LLM call count = %d, want 2", len(textGen.calls))
	}
	if !strings.Contains(textGen.calls[1].Prompt, "and then") {
		t.Error("continuation prompt does not carry the story tail")
	}
}

func TestGenerateConclusionPass(t *testing.T) {
	// 字数达标但断在半句，触发一次收尾补写
	gen, textGen := newTestGenerator(
		scriptedCall{text: strings.Repeat("word ", 109) + "and the door"},
		scriptedCall{text: "slammed shut behind her. The end."},
	)

	result, err := gen.Generate(context.Background(), "system", "user", testOptions(100))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.ContinuationCalls != 1 {
		t.Errorf("ContinuationCalls = %d, want 1", result.ContinuationCalls)
	}
	if result.UnderLength {
		t.Errorf("UnderLength = true with %d words", result.WordCount)
	}
	if len(textGen.calls) != 2 {
		t.Fatalf("LLM call count = %d, want 2", len(textGen.calls))
	}
	// 收尾补写不携带系统提示词
	if textGen.calls[1].SystemPrompt != "" {
		t.Errorf("conclusion call SystemPrompt = %q, want empty", textGen.calls[1].SystemPrompt)
	}
}

func TestGenerateContinuationErrorsConsumeAttempts(t *testing.T) {
	gen, textGen := newTestGenerator(
		scriptedCall{text: strings.Repeat("word ", 49) + "and then"},
		scriptedCall{err: stderrors.New("timeout")},
		scriptedCall{err: stderrors.New("timeout")},
		scriptedCall{err: stderrors.New("timeout")},
	)

	result, err := gen.Generate(context.Background(), "system", "user", testOptions(100))
	if err != nil {
		t.Fatalf("Generate() error = %v, continuation failures must not propagate", err)
	}
	if result.ContinuationCalls != 3 {
		t.Errorf("ContinuationCalls = %d, want 3", result.ContinuationCalls)
	}
	if !result.UnderLength {
		t.Error("UnderLength = false for a 50-word result against min 100")
	}
	if len(textGen.calls) != 4 {
		t.Fatalf("LLM call count = %d, want 4", len(textGen.calls))
	}
}

func TestGenerateEmptyChunksConsumeAttempts(t *testing.T) {
	gen, _ := newTestGenerator(
		scriptedCall{text: storyOfWords(50)},
		scriptedCall{text: ""},
		scriptedCall{text: ""},
		scriptedCall{text: storyOfWords(60)},
	)

	result, err := gen.Generate(context.Background(), "system", "user", testOptions(100))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.ContinuationCalls != 3 {
		t.Errorf("ContinuationCalls = %d, want 3", result.ContinuationCalls)
	}
	if result.UnderLength {
		t.Errorf("UnderLength = true with %d words", result.WordCount)
	}
}

func TestGenerateStripsMetadataFromDraft(t *testing.T) {
	gen, _ := newTestGenerator(
		scriptedCall{text: "# Title: The Haunting\n\n**Word Count:** 120\n\n" + storyOfWords(120)},
	)

	result, err := gen.Generate(context.Background(), "system", "user", testOptions(100))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Contains(result.Text, "#") || strings.Contains(result.Text, "**") {
		t.Errorf("result text still carries markdown metadata: %q", result.Text[:60])
	}
	if result.WordCount != 120 {
		t.Errorf("WordCount = %d, want 120", result.WordCount)
	}
}
