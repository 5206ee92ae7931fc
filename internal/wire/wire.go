// Package wire 提供依赖装配
package wire

import (
	"context"
	"fmt"

	"shortstory-ai-api/internal/application/story"
	"shortstory-ai-api/internal/application/story/draft"
	"shortstory-ai-api/internal/application/story/revision"
	"shortstory-ai-api/internal/config"
	"shortstory-ai-api/internal/infrastructure/llm"
	"shortstory-ai-api/internal/infrastructure/messaging"
	"shortstory-ai-api/internal/infrastructure/persistence/postgres"
	"shortstory-ai-api/internal/infrastructure/persistence/redis"
	"shortstory-ai-api/internal/interfaces/http/handler"
	"shortstory-ai-api/internal/interfaces/http/middleware"
	"shortstory-ai-api/internal/interfaces/http/router"
)

// App API 网关的全部运行时依赖
type App struct {
	Config      *config.Config
	PgClient    *postgres.Client
	RedisClient *redis.Client
	Cache       *redis.Cache
	Producer    *messaging.Producer

	StoryRepo *postgres.StoryRepository
	JobRepo   *postgres.JobRepository

	StoryService    *story.Service
	RevisionService *revision.Service

	Router *router.Router
}

// Close 释放持有的连接
func (a *App) Close() error {
	var firstErr error
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.PgClient != nil {
		if err := a.PgClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// InitializeApp 装配 API 网关
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, error) {
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		_ = pgClient.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	cache := redis.NewCache(redisClient)
	producer := messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))

	storyRepo := postgres.NewStoryRepository(pgClient)
	jobRepo := postgres.NewJobRepository(pgClient)
	txMgr := postgres.NewTxManager(pgClient)

	factory := llm.NewEinoFactory(&cfg.LLM)
	textGen := llm.NewEinoTextGenerator(factory, &cfg.LLM)
	budget := draft.NewBudgetCalculator(
		cfg.LLM.Provider().ContextWindow,
		cfg.Generation.MinTokens,
		cfg.Generation.ProviderMaxOutputTokens,
	)
	generator := draft.NewGenerator(textGen, budget)

	storyService := story.NewService(storyRepo, jobRepo, txMgr, generator, producer, cache, &cfg.LLM, &cfg.Generation)
	revisionService := revision.NewService(storyRepo, generator, cache, &cfg.LLM, &cfg.Generation)

	handlers := router.Handlers{
		Story:  handler.NewStoryHandler(storyService, revisionService),
		Genre:  handler.NewGenreHandler(cache),
		Job:    handler.NewJobHandler(storyService, jobRepo),
		Health: handler.NewHealthHandler(pgClient, redisClient),
	}

	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:  cfg.Security.RateLimit.Enabled,
		Requests: cfg.Security.RateLimit.Requests,
		Window:   cfg.Security.RateLimit.Window,
	}, redis.NewRateLimiter(redisClient))

	return &App{
		Config:          cfg,
		PgClient:        pgClient,
		RedisClient:     redisClient,
		Cache:           cache,
		Producer:        producer,
		StoryRepo:       storyRepo,
		JobRepo:         jobRepo,
		StoryService:    storyService,
		RevisionService: revisionService,
		Router:          router.New(cfg, handlers, rateLimit),
	}, nil
}

// WorkerApp job-worker 的运行时依赖
type WorkerApp struct {
	Config      *config.Config
	PgClient    *postgres.Client
	RedisClient *redis.Client
	Processor   *story.Processor
	JobRepo     *postgres.JobRepository
}

// Close 释放持有的连接
func (a *WorkerApp) Close() error {
	var firstErr error
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.PgClient != nil {
		if err := a.PgClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// InitializeWorker 装配 job-worker
func InitializeWorker(ctx context.Context, cfg *config.Config) (*WorkerApp, error) {
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		_ = pgClient.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	cache := redis.NewCache(redisClient)
	producer := messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))

	storyRepo := postgres.NewStoryRepository(pgClient)
	jobRepo := postgres.NewJobRepository(pgClient)
	txMgr := postgres.NewTxManager(pgClient)

	factory := llm.NewEinoFactory(&cfg.LLM)
	textGen := llm.NewEinoTextGenerator(factory, &cfg.LLM)
	budget := draft.NewBudgetCalculator(
		cfg.LLM.Provider().ContextWindow,
		cfg.Generation.MinTokens,
		cfg.Generation.ProviderMaxOutputTokens,
	)
	generator := draft.NewGenerator(textGen, budget)

	storyService := story.NewService(storyRepo, jobRepo, txMgr, generator, producer, cache, &cfg.LLM, &cfg.Generation)

	return &WorkerApp{
		Config:      cfg,
		PgClient:    pgClient,
		RedisClient: redisClient,
		Processor:   story.NewProcessor(storyService, jobRepo),
		JobRepo:     jobRepo,
	}, nil
}
