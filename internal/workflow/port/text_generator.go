package port

import "context"

// GenerateRequest 单次文本生成调用的参数。
type GenerateRequest struct {
	Prompt       string
	SystemPrompt string
	Temperature  *float32
	MaxTokens    int
}

// TextGenerator 定义生成流程对 LLM 的最小依赖（port）。
// 空字符串是合法的非错误返回，表示模型未产出内容。
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
