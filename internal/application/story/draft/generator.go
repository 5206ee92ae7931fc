package draft

import (
	"context"
	"strings"

	"shortstory-ai-api/internal/application/story/storyutil"
	"shortstory-ai-api/internal/workflow/port"
	"shortstory-ai-api/internal/workflow/prompt"
	"shortstory-ai-api/pkg/errors"
	"shortstory-ai-api/pkg/logger"
	"shortstory-ai-api/pkg/metrics"
)

const (
	// continuationMult 续写轮的预算放大系数，补偿模型普遍少写的倾向
	continuationMult = 1.3
	// conclusionTailWords 收尾补写时回传给模型的上下文单词数
	conclusionTailWords = 300
	// continuationTailWords 续写时回传给模型的上下文单词数
	continuationTailWords = 500
	// conclusionTargetWords 收尾补写的目标字数上沿
	conclusionTargetWords = 400
)

// Options 单次初稿生成的参数
type Options struct {
	Genre       string
	MinWords    int
	TargetWords int
	MaxAttempts int
	Temperature *float32
	Provider    string
	Model       string
}

// Result 初稿生成结果
// UnderLength 表示多轮续写后仍未达到最小字数，属于上报状态而非错误
type Result struct {
	Text              string
	WordCount         int
	ContinuationCalls int
	UnderLength       bool
}

// Generator 初稿生成器，驱动首轮调用与有界续写循环
type Generator struct {
	textGen port.TextGenerator
	budget  *BudgetCalculator
}

// NewGenerator 创建初稿生成器
func NewGenerator(textGen port.TextGenerator, budget *BudgetCalculator) *Generator {
	return &Generator{textGen: textGen, budget: budget}
}

// Generate 执行一次完整的初稿生成。
// 首轮调用失败向上传播；续写轮失败只记录日志并消耗一次尝试。
// 调用次数有上界：至多 1 次首轮 + 1 次收尾 + MaxAttempts 次续写。
func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string, opts Options) (*Result, error) {
	if g.budget.Overflowed(userPrompt, systemPrompt) {
		logger.Warn(ctx, "prompt exhausts usable context window, falling back to minimum token budget",
			"genre", opts.Genre)
	}

	budget := g.budget.MaxOutputTokens(userPrompt, systemPrompt, opts.TargetWords)
	metrics.LLMTokensBudgeted.WithLabelValues(opts.Provider, opts.Model, "initial").Add(float64(budget))

	text, err := g.textGen.Generate(ctx, port.GenerateRequest{
		Prompt:       userPrompt,
		SystemPrompt: systemPrompt,
		Temperature:  opts.Temperature,
		MaxTokens:    budget,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGenerationFailed, "initial story generation failed")
	}
	text = storyutil.Sanitize(text)
	wordCount := storyutil.CountWords(text)

	result := &Result{}

	// 够长却断在半句：先做一次收尾补写再进入续写循环
	if wordCount >= opts.MinWords && !IsComplete(text, opts.MinWords) {
		text, wordCount = g.concludeOnce(ctx, text, wordCount, opts, result)
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		// 软接受也算完结，不再追加续写调用
		if IsComplete(text, opts.MinWords) {
			break
		}
		remaining := opts.MinWords - wordCount
		if deficit := opts.TargetWords - wordCount; deficit > remaining {
			remaining = deficit
		}
		if remaining <= 0 {
			remaining = conclusionTargetWords
		}

		tail := storyutil.TailWords(text, continuationTailWords)
		contPrompt := prompt.BuildContinuationPrompt(tail, remaining)
		contBudget := g.continuationBudget(contPrompt, systemPrompt, remaining)
		metrics.LLMTokensBudgeted.WithLabelValues(opts.Provider, opts.Model, "continuation").Add(float64(contBudget))

		chunk, err := g.textGen.Generate(ctx, port.GenerateRequest{
			Prompt:       contPrompt,
			SystemPrompt: systemPrompt,
			Temperature:  opts.Temperature,
			MaxTokens:    contBudget,
		})
		result.ContinuationCalls++
		if err != nil {
			logger.Warn(ctx, "continuation attempt failed",
				"attempt", attempt, "genre", opts.Genre, "error", err.Error())
			continue
		}
		chunk = storyutil.Sanitize(chunk)
		if chunk == "" {
			logger.Warn(ctx, "continuation attempt returned empty text",
				"attempt", attempt, "genre", opts.Genre)
			continue
		}
		text = strings.TrimSpace(text) + " " + chunk
		wordCount = storyutil.CountWords(text)
	}

	text = storyutil.Sanitize(text)
	wordCount = storyutil.CountWords(text)

	result.Text = text
	result.WordCount = wordCount
	result.UnderLength = wordCount < opts.MinWords

	metrics.ContinuationAttempts.WithLabelValues(opts.Genre).Observe(float64(result.ContinuationCalls))
	metrics.StoryWordCount.WithLabelValues(opts.Genre).Observe(float64(wordCount))

	return result, nil
}

// concludeOnce 对截断在半句的长文追加一次收尾补写，失败时原样返回
func (g *Generator) concludeOnce(ctx context.Context, text string, wordCount int, opts Options, result *Result) (string, int) {
	tail := storyutil.TailWords(text, conclusionTailWords)
	conclusionPrompt := prompt.BuildConclusionPrompt(tail)
	budget := g.continuationBudget(conclusionPrompt, "", conclusionTargetWords)
	metrics.LLMTokensBudgeted.WithLabelValues(opts.Provider, opts.Model, "conclusion").Add(float64(budget))

	chunk, err := g.textGen.Generate(ctx, port.GenerateRequest{
		Prompt:      conclusionPrompt,
		Temperature: opts.Temperature,
		MaxTokens:   budget,
	})
	result.ContinuationCalls++
	if err != nil {
		logger.Warn(ctx, "conclusion pass failed", "genre", opts.Genre, "error", err.Error())
		return text, wordCount
	}
	chunk = storyutil.Sanitize(chunk)
	if chunk == "" {
		return text, wordCount
	}
	joined := strings.TrimSpace(text) + " " + chunk
	return joined, storyutil.CountWords(joined)
}

// continuationBudget 计算续写轮的 token 预算
// 在窗口余量之外再以 remaining*tokensPerWord*continuationMult 封顶
func (g *Generator) continuationBudget(contPrompt, systemPrompt string, remaining int) int {
	budget := g.budget.MaxOutputTokens(contPrompt, systemPrompt, 0)
	capped := int(float64(remaining) * tokensPerWord * continuationMult)
	if capped < budget {
		budget = capped
	}
	if budget > g.budget.providerMaxOut {
		budget = g.budget.providerMaxOut
	}
	if budget < g.budget.minTokens {
		budget = g.budget.minTokens
	}
	return budget
}
