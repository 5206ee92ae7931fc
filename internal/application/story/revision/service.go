// Package revision 提供故事修订台账的追加、查询与版本比较
package revision

import (
	"context"
	"fmt"
	"time"

	"shortstory-ai-api/internal/application/story/draft"
	"shortstory-ai-api/internal/application/story/storyutil"
	"shortstory-ai-api/internal/config"
	"shortstory-ai-api/internal/domain/entity"
	"shortstory-ai-api/internal/domain/repository"
	"shortstory-ai-api/internal/infrastructure/persistence/redis"
	"shortstory-ai-api/internal/workflow/prompt"
	"shortstory-ai-api/pkg/errors"
	"shortstory-ai-api/pkg/logger"
	"shortstory-ai-api/pkg/metrics"
)

// VersionSummary 比较结果中单个版本的摘要
type VersionSummary struct {
	Version   int    `json:"version"`
	WordCount int    `json:"word_count"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// ComparisonResult 两个修订版本的差异
type ComparisonResult struct {
	StoryID        string         `json:"story_id"`
	V1             VersionSummary `json:"v1"`
	V2             VersionSummary `json:"v2"`
	WordCountDiff  int            `json:"word_count_diff"`
	TextLengthDiff int            `json:"text_length_diff"`
	WordsAdded     int            `json:"words_added"`
	WordsRemoved   int            `json:"words_removed"`
}

// Service 修订应用服务
type Service struct {
	storyRepo repository.StoryRepository
	generator *draft.Generator
	cache     *redis.Cache
	llmCfg    *config.LLMConfig
	genCfg    *config.GenerationConfig
}

// NewService 创建修订应用服务
func NewService(
	storyRepo repository.StoryRepository,
	generator *draft.Generator,
	cache *redis.Cache,
	llmCfg *config.LLMConfig,
	genCfg *config.GenerationConfig,
) *Service {
	return &Service{
		storyRepo: storyRepo,
		generator: generator,
		cache:     cache,
		llmCfg:    llmCfg,
		genCfg:    genCfg,
	}
}

// Revise 按修订意见生成新版本并追加台账
func (s *Service) Revise(ctx context.Context, storyID string, feedback []string) (*entity.Story, error) {
	st, err := s.loadStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if st.Body == "" {
		return nil, errors.New(errors.CodeValidationFailed, "story has no body to revise")
	}

	systemPrompt := prompt.BuildRevisionSystemPrompt()
	userPrompt, targets := prompt.BuildRevisionUserPrompt(st.Body, feedback, st.MaxWords)

	provider := s.llmCfg.Provider()
	temperature := float32(provider.Temperature)
	result, err := s.generator.Generate(ctx, systemPrompt, userPrompt, draft.Options{
		Genre:       st.Genre,
		MinWords:    targets.MinWords,
		TargetWords: targets.TargetWords,
		MaxAttempts: s.genCfg.MaxContinuationAttempts,
		Temperature: &temperature,
		Provider:    s.llmCfg.DefaultProvider,
		Model:       provider.Model,
	})
	if err != nil {
		metrics.RevisionTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	st.SetBody(result.Text, result.WordCount)
	st.AppendRevision(result.Text, result.WordCount, entity.RevisionTypeRevised)
	if st.Metadata != nil {
		st.Metadata.ContinuationCalls = result.ContinuationCalls
		st.Metadata.UnderLength = result.UnderLength
		st.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := s.storyRepo.Update(ctx, st); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to persist revised story")
	}
	if err := s.cache.InvalidateStory(ctx, storyID); err != nil {
		logger.Warn(ctx, "failed to invalidate story cache after revision", "story_id", storyID, "error", err.Error())
	}

	metrics.RevisionTotal.WithLabelValues("success").Inc()
	return st, nil
}

// History 返回故事的全部修订条目，按版本升序
func (s *Service) History(ctx context.Context, storyID string) ([]entity.RevisionEntry, error) {
	st, err := s.loadStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return st.RevisionHistory, nil
}

// Compare 比较两个修订版本并计算差异。
// v1/v2 任一传 0 时整体取 (第一版, 最新版)；少于两条台账时返回历史不足错误。
func (s *Service) Compare(ctx context.Context, storyID string, v1, v2 int) (*ComparisonResult, error) {
	st, err := s.loadStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if len(st.RevisionHistory) < 2 {
		return nil, errors.ErrInsufficientHistory
	}

	// 任一版本缺省时整体回退到 (首版, 最新版)
	if v1 <= 0 || v2 <= 0 {
		v1 = 1
		v2 = st.CurrentRevision
	}

	first, ok1 := st.Revision(v1)
	second, ok2 := st.Revision(v2)
	if !ok1 || !ok2 {
		missing := v1
		if ok1 {
			missing = v2
		}
		return nil, errors.New(errors.CodeValidationFailed,
			fmt.Sprintf("revision %d not found, available versions: %v", missing, st.AvailableVersions()))
	}

	words1 := storyutil.CountWords(first.Body)
	words2 := storyutil.CountWords(second.Body)
	wordsAdded := words2 - words1
	wordsRemoved := words1 - words2
	if wordsAdded < 0 {
		wordsAdded = 0
	}
	if wordsRemoved < 0 {
		wordsRemoved = 0
	}

	return &ComparisonResult{
		StoryID:        storyID,
		V1:             summarize(first),
		V2:             summarize(second),
		WordCountDiff:  second.WordCount - first.WordCount,
		TextLengthDiff: len(second.Body) - len(first.Body),
		WordsAdded:     wordsAdded,
		WordsRemoved:   wordsRemoved,
	}, nil
}

func summarize(e entity.RevisionEntry) VersionSummary {
	return VersionSummary{
		Version:   e.Version,
		WordCount: e.WordCount,
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
	}
}

func (s *Service) loadStory(ctx context.Context, storyID string) (*entity.Story, error) {
	st, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load story")
	}
	if st == nil {
		return nil, errors.ErrStoryNotFound
	}
	return st, nil
}
