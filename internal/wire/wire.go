// Package wire 提供依赖注入装配
package wire

import (
	"context"

	"sixty-content-api/internal/application/content"
	"sixty-content-api/internal/application/quota"
	"sixty-content-api/internal/config"
	"sixty-content-api/internal/infrastructure/llm"
	"sixty-content-api/internal/infrastructure/persistence/postgres"
	"sixty-content-api/internal/infrastructure/persistence/redis"
	"sixty-content-api/internal/interfaces/http/handler"
	"sixty-content-api/internal/interfaces/http/router"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	// PostgreSQL
	PgClient     *postgres.Client
	TxManager    *postgres.TxManager
	MeetingRepo  *postgres.MeetingRepository
	TopicRepo    *postgres.TopicRepository
	ContentRepo  *postgres.ContentRepository
	LLMUsageRepo *postgres.LLMUsageEventRepository

	// Redis
	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter
}

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient     *postgres.Client
	TxManager    *postgres.TxManager
	MeetingRepo  *postgres.MeetingRepository
	TopicRepo    *postgres.TopicRepository
	ContentRepo  *postgres.ContentRepository
	LLMUsageRepo *postgres.LLMUsageEventRepository
}

// App 已完成装配的应用
type App struct {
	Router *router.Router
	Data   *DataLayer
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = pgClient.Close()
	}

	return &PostgresOnlyDataLayer{
		PgClient:     pgClient,
		TxManager:    postgres.NewTxManager(pgClient),
		MeetingRepo:  postgres.NewMeetingRepository(pgClient),
		TopicRepo:    postgres.NewTopicRepository(pgClient),
		ContentRepo:  postgres.NewContentRepository(pgClient),
		LLMUsageRepo: postgres.NewLLMUsageEventRepository(pgClient),
	}, cleanup, nil
}

// InitializeDataLayer 初始化数据层
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		_ = pgClient.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = redisClient.Close()
		_ = pgClient.Close()
	}

	return &DataLayer{
		PgClient:     pgClient,
		TxManager:    postgres.NewTxManager(pgClient),
		MeetingRepo:  postgres.NewMeetingRepository(pgClient),
		TopicRepo:    postgres.NewTopicRepository(pgClient),
		ContentRepo:  postgres.NewContentRepository(pgClient),
		LLMUsageRepo: postgres.NewLLMUsageEventRepository(pgClient),
		RedisClient:  redisClient,
		Cache:        redis.NewCache(redisClient),
		RateLimiter:  redis.NewRateLimiter(redisClient),
	}, cleanup, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	data, cleanup, err := InitializeDataLayer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// LLM 与应用服务
	factory := llm.NewEinoFactory(cfg)
	generator := content.NewGenerator(factory, &cfg.Generation)
	costModel := content.NewCostModel(&cfg.Pricing)
	usageRecorder := quota.NewLLMUsageRecorder(data.LLMUsageRepo)
	spendChecker := quota.NewSpendLimitChecker(data.LLMUsageRepo, cfg.Generation.MonthlySpendLimitCents)

	orchestrator := content.NewOrchestrator(
		data.MeetingRepo,
		data.TopicRepo,
		data.ContentRepo,
		generator,
		costModel,
		usageRecorder,
		data.Cache,
		spendChecker,
		data.TxManager,
		&cfg.Generation,
	)

	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(data.PgClient, data.RedisClient),
		Content: handler.NewContentHandler(orchestrator, data.ContentRepo, data.Cache, cfg),
		Usage:   handler.NewUsageHandler(data.LLMUsageRepo, spendChecker, cfg),
	}

	app := &App{
		Router: router.New(cfg, handlers, data.RateLimiter),
		Data:   data,
	}
	return app, cleanup, nil
}
