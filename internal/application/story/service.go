// Package story 提供短篇小说生成与管理的应用服务
package story

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"shortstory-ai-api/internal/application/story/draft"
	"shortstory-ai-api/internal/config"
	"shortstory-ai-api/internal/domain/entity"
	"shortstory-ai-api/internal/domain/repository"
	"shortstory-ai-api/internal/infrastructure/messaging"
	"shortstory-ai-api/internal/infrastructure/persistence/redis"
	"shortstory-ai-api/internal/workflow/prompt"
	"shortstory-ai-api/pkg/errors"
	"shortstory-ai-api/pkg/logger"
	"shortstory-ai-api/pkg/metrics"
)

// storyCacheTTL 单篇故事缓存时长
const storyCacheTTL = 10 * time.Minute

// GenerateInput 一次生成请求的输入
type GenerateInput struct {
	Idea      string                   `json:"idea"`
	Theme     string                   `json:"theme,omitempty"`
	Genre     string                   `json:"genre,omitempty"`
	Character *entity.CharacterProfile `json:"character,omitempty"`
	MaxWords  int                      `json:"max_words,omitempty"`
}

// Service 故事应用服务
type Service struct {
	storyRepo repository.StoryRepository
	jobRepo   repository.JobRepository
	txMgr     repository.Transactor
	generator *draft.Generator
	producer  *messaging.Producer
	cache     *redis.Cache
	llmCfg    *config.LLMConfig
	genCfg    *config.GenerationConfig
}

// NewService 创建故事应用服务
func NewService(
	storyRepo repository.StoryRepository,
	jobRepo repository.JobRepository,
	txMgr repository.Transactor,
	generator *draft.Generator,
	producer *messaging.Producer,
	cache *redis.Cache,
	llmCfg *config.LLMConfig,
	genCfg *config.GenerationConfig,
) *Service {
	return &Service{
		storyRepo: storyRepo,
		jobRepo:   jobRepo,
		txMgr:     txMgr,
		generator: generator,
		producer:  producer,
		cache:     cache,
		llmCfg:    llmCfg,
		genCfg:    genCfg,
	}
}

// Generate 同步生成一篇故事并落库
// 生成结果未达最小字数时不报错，以 metadata 与指标上报
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*entity.Story, error) {
	started := time.Now()
	genre := prompt.ResolveGenre(input.Genre)

	maxWords := input.MaxWords
	if maxWords <= 0 {
		maxWords = s.genCfg.DefaultMaxWords
	}

	params := prompt.StoryParams{
		Idea:     input.Idea,
		Theme:    input.Theme,
		Genre:    genre,
		MaxWords: maxWords,
	}
	if input.Character != nil {
		params.Character = prompt.CharacterInput{
			Name:           input.Character.Name,
			Description:    input.Character.Description,
			Quirks:         input.Character.Quirks,
			Contradictions: input.Character.Contradictions,
		}
		// 自由文本画像归一化为描述
		if params.Character.Description == "" && input.Character.Freeform != "" {
			params.Character.Description = input.Character.Freeform
		}
	}

	systemPrompt := prompt.BuildStorySystemPrompt()
	userPrompt, targets := prompt.BuildStoryUserPrompt(params)

	provider := s.llmCfg.Provider()
	temperature := float32(provider.Temperature)
	result, err := s.generator.Generate(ctx, systemPrompt, userPrompt, draft.Options{
		Genre:       genre.Name,
		MinWords:    targets.MinWords,
		TargetWords: targets.TargetWords,
		MaxAttempts: s.genCfg.MaxContinuationAttempts,
		Temperature: &temperature,
		Provider:    s.llmCfg.DefaultProvider,
		Model:       provider.Model,
	})
	if err != nil {
		metrics.StoryGenerationTotal.WithLabelValues(genre.Name, "failed").Inc()
		return nil, err
	}

	st := entity.NewStory(input.Idea, input.Theme, genre.Name, maxWords)
	st.Character = input.Character
	st.Outline = genre.Outline
	st.Scaffold = genre.Framework
	st.SetBody(result.Text, result.WordCount)
	st.AppendRevision(result.Text, result.WordCount, entity.RevisionTypeDraft)
	st.Metadata = &entity.GenerationMetadata{
		Model:             provider.Model,
		Provider:          s.llmCfg.DefaultProvider,
		Temperature:       provider.Temperature,
		ContinuationCalls: result.ContinuationCalls,
		UnderLength:       result.UnderLength,
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.storyRepo.Create(ctx, st); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to persist generated story")
	}

	status := "complete"
	if result.UnderLength {
		status = "under_length"
		logger.Warn(ctx, "story below minimum word count after all continuation attempts",
			"story_id", st.ID, "word_count", result.WordCount, "min_words", targets.MinWords)
	}
	metrics.StoryGenerationTotal.WithLabelValues(genre.Name, status).Inc()
	metrics.StoryGenerationDuration.WithLabelValues(genre.Name).Observe(time.Since(started).Seconds())

	return st, nil
}

// GenerateAsync 创建生成任务并投递到消息流，立即返回任务句柄
func (s *Service) GenerateAsync(ctx context.Context, input GenerateInput) (*entity.GenerationJob, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "failed to encode generation input")
	}

	job := entity.NewGenerationJob(entity.JobTypeStoryGen, payload)
	job.LLMProvider = s.llmCfg.DefaultProvider
	job.LLMModel = s.llmCfg.Provider().Model
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to create generation job")
	}

	msg := &messaging.GenerationJobMessage{
		JobID:     job.ID,
		JobType:   string(job.JobType),
		RequestID: uuid.NewString(),
		Params:    payload,
	}
	if _, err := s.producer.PublishGenJob(ctx, msg); err != nil {
		job.Fail("failed to enqueue job")
		if updateErr := s.jobRepo.Update(ctx, job); updateErr != nil {
			logger.Error(ctx, "failed to mark job as failed after enqueue error", updateErr, "job_id", job.ID)
		}
		return nil, errors.Wrap(err, errors.CodeQueueError, "failed to enqueue generation job")
	}

	return job, nil
}

// GetStory 读取单篇故事，经 Redis 读穿缓存
func (s *Service) GetStory(ctx context.Context, id string) (*entity.Story, error) {
	key := redis.BuildStoryKey(id)
	data, err := s.cache.GetOrLoadSafe(ctx, key, storyCacheTTL, func() (interface{}, error) {
		st, err := s.storyRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if st == nil {
			return nil, errors.ErrStoryNotFound
		}
		return st, nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load story")
	}

	var st entity.Story
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to decode cached story")
	}
	return &st, nil
}

// ListStories 分页列出故事
func (s *Service) ListStories(ctx context.Context, genre string, page, pageSize int) (*repository.PagedResult[*entity.Story], error) {
	pagination := repository.NewPagination(page, pageSize)
	result, err := s.storyRepo.List(ctx, &repository.StoryFilter{Genre: genre}, pagination)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list stories")
	}
	return result, nil
}

// DeleteStory 删除故事并清理缓存
func (s *Service) DeleteStory(ctx context.Context, id string) error {
	existing, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to get story")
	}
	if existing == nil {
		return errors.ErrStoryNotFound
	}

	// 故事与其任务在同一事务内删除
	err = s.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.storyRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.jobRepo.DeleteByStoryID(txCtx, id)
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete story")
	}
	if err := s.cache.InvalidateStory(ctx, id); err != nil {
		logger.Warn(ctx, "failed to invalidate story cache", "story_id", id, "error", err.Error())
	}
	return nil
}

// GetJob 查询生成任务状态
func (s *Service) GetJob(ctx context.Context, id string) (*entity.GenerationJob, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load job")
	}
	if job == nil {
		return nil, errors.ErrJobNotFound
	}
	return job, nil
}
