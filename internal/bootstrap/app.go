package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gopherai-qa/internal/ai"
	appsvc "gopherai-qa/internal/app"
	"gopherai-qa/internal/cache"
	"gopherai-qa/internal/config"
	postgresClient "gopherai-qa/internal/platform/postgres"
	rabbitmqClient "gopherai-qa/internal/platform/rabbitmq"
	redisClient "gopherai-qa/internal/platform/redis"
	"gopherai-qa/internal/repository"
	"gopherai-qa/internal/repository/memory"
	"gopherai-qa/internal/worker"
)

// App holds the process-scoped resources shared by every request.
// DB, Redis, MQConn and SearchLogWorker are nil when their backend is off.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB              *gorm.DB
	Redis           *redis.Client
	MQConn          *amqp.Connection
	SearchLogWorker *worker.SearchLogWorker

	Stores        appsvc.Stores
	Embedder      appsvc.Embedder
	LLM           appsvc.Completer
	SearchLogs    appsvc.SearchLogPublisher
	SearchCounter appsvc.SearchLogCounter

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *App, err error) {
	a := &App{
		Config:    cfg,
		Logger:    logger,
		StartedAt: time.Now(),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		a.Stores = appsvc.Stores{
			Questions: store.Questions(),
			Answers:   store.Answers(),
			Chunks:    store.Chunks(),
		}
		searchLogs := store.SearchLogs()
		a.SearchLogs, a.SearchCounter = searchLogs, searchLogs
	default:
		db, err := postgresClient.New(ctx, cfg.PostgresDSN(), postgresClient.Options{
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
			Debug:        cfg.App.Debug,
		})
		if err != nil {
			return nil, err
		}
		a.DB = db
		if err := postgresClient.Migrate(ctx, db); err != nil {
			return nil, err
		}
		a.Stores = appsvc.Stores{
			Questions: repository.NewQuestionRepository(db),
			Answers:   repository.NewAnswerRepository(db),
			Chunks:    repository.NewDocumentChunkRepository(db),
		}
		searchLogs := repository.NewSearchLogRepository(db)
		a.SearchLogs, a.SearchCounter = searchLogs, searchLogs

		if cfg.RabbitMQ.Enabled {
			if err := a.startSearchLogQueue(ctx, searchLogs); err != nil {
				return nil, err
			}
		}
	}

	client := ai.NewOpenAICompatibleClient(time.Duration(cfg.LLM.TimeoutSeconds) * time.Second)
	a.LLM = ai.NewChatModel(client, ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	embedder := ai.NewEmbedder(client, ai.EmbeddingConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.EmbeddingModel,
	})
	a.Embedder = embedder

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.Redis = redisCli
		ttl := time.Duration(cfg.Redis.EmbeddingTTLSeconds) * time.Second
		a.Embedder = cache.NewCachedEmbedder(embedder, cache.NewEmbeddingCache(redisCli, ttl), logger)
	}

	logger.Info("bootstrap complete",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("rabbitmq", cfg.RabbitMQ.Enabled),
	)
	return a, nil
}

// startSearchLogQueue routes search logs through RabbitMQ; the worker writes them to Postgres.
func (a *App) startSearchLogQueue(ctx context.Context, writer *repository.SearchLogRepository) error {
	mqConn, err := rabbitmqClient.New(ctx, a.Config.RabbitMQ.URL)
	if err != nil {
		return err
	}
	a.MQConn = mqConn

	queue := a.Config.RabbitMQ.SearchLogQueue
	searchWorker := worker.NewSearchLogWorker(mqConn, writer, queue, a.Logger)
	if err := searchWorker.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("start search log worker failed: %w", err)
	}
	a.SearchLogWorker = searchWorker
	a.SearchLogs = rabbitmqClient.NewSearchLogPublisher(mqConn, queue)
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.SearchLogWorker != nil {
		a.SearchLogWorker.Close()
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
