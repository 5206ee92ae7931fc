package llm

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"shortstory-ai-api/internal/config"
	einoobs "shortstory-ai-api/internal/observability/eino"
	"shortstory-ai-api/internal/workflow/port"
	apperrors "shortstory-ai-api/pkg/errors"
)

// EinoTextGenerator 基于 Eino ChatModel 的 TextGenerator 实现
type EinoTextGenerator struct {
	factory  port.ChatModelFactory
	provider string
}

// NewEinoTextGenerator 创建文本生成器
func NewEinoTextGenerator(factory port.ChatModelFactory, cfg *config.LLMConfig) *EinoTextGenerator {
	return &EinoTextGenerator{
		factory:  factory,
		provider: cfg.DefaultProvider,
	}
}

// Generate 执行单次生成调用
func (g *EinoTextGenerator) Generate(ctx context.Context, req port.GenerateRequest) (string, error) {
	ctx = einoobs.WithProvider(ctx, g.provider)

	chatModel, err := g.factory.Get(ctx, g.provider)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeLLMProviderError, "failed to resolve chat model")
	}

	msgs := make([]*schema.Message, 0, 2)
	if strings.TrimSpace(req.SystemPrompt) != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemPrompt))
	}
	msgs = append(msgs, schema.UserMessage(req.Prompt))

	opts := make([]model.Option, 0, 2)
	if req.Temperature != nil {
		opts = append(opts, model.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	outMsg, err := chatModel.Generate(ctx, msgs, opts...)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "llm generate failed")
	}
	if outMsg == nil {
		return "", nil
	}
	return outMsg.Content, nil
}
