package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taihub/taihub/internal/ai"
	"github.com/taihub/taihub/internal/app"
	"github.com/taihub/taihub/internal/dictionary"
	"github.com/taihub/taihub/internal/stats"
	"github.com/taihub/taihub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	dictionaryService := dictionary.NewService(dictionary.NewRepository(pool))
	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AITimeout)
	mediaStore := &jobs.FileMediaStore{Dir: cfg.MediaDir, URLPrefix: "/media"}

	mediaJob := &jobs.WordMediaJob{
		Dictionary: dictionaryService,
		Generator:  aiClient,
		Store:      mediaStore,
		Logger:     logger,
	}

	statsCache := stats.NewCache(redisClient, cfg.StatsCacheTTL)
	statsService := stats.NewService(stats.NewRepository(pool), statsCache)
	warmupJob := &jobs.StatsWarmupJob{Stats: statsService, Logger: logger}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskWordImage, Handler: mediaJob.HandleImage},
			{Type: jobs.TaskWordAudio, Handler: mediaJob.HandleAudio},
			{Type: jobs.TaskStatsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/10 * * * *", Task: jobs.NewStatsWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
