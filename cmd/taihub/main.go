package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taihub/taihub/cmd/taihub/cli"
	"github.com/taihub/taihub/internal/ai"
	"github.com/taihub/taihub/internal/app"
	"github.com/taihub/taihub/internal/dictionary"
	"github.com/taihub/taihub/internal/exams"
	"github.com/taihub/taihub/internal/gallery"
	"github.com/taihub/taihub/internal/identity"
	"github.com/taihub/taihub/internal/library"
	"github.com/taihub/taihub/internal/observability"
	"github.com/taihub/taihub/internal/shared"
	"github.com/taihub/taihub/internal/songs"
	"github.com/taihub/taihub/internal/stats"
	"github.com/taihub/taihub/internal/students"
	"github.com/taihub/taihub/internal/videos"
	"github.com/taihub/taihub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		if err := runJobsCommand(ctx, cfg, os.Args[2:]); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "taihub_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)
	authz := identity.Middleware{Logger: logger}

	identityStore := identity.NewStore(identity.NewRepository(dbpool), logger)
	if err := identityStore.Load(ctx); err != nil {
		// Served degraded: every credential check fails closed until the
		// store recovers on the next successful write.
		logger.Error("load identity records", slog.Any("error", err))
	}
	identityHandler := identity.NewHandler(logger, identityStore, csrfManager, auditLogger)

	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AITimeout)
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	dictionaryService := dictionary.NewService(dictionary.NewRepository(dbpool))
	dictionaryHandler := dictionary.NewHandler(logger, dictionaryService, jobClient, aiClient, auditLogger, authz)

	libraryHandler := library.NewHandler(logger, library.NewService(library.NewRepository(dbpool)), auditLogger, authz)
	galleryHandler := gallery.NewHandler(logger, gallery.NewService(gallery.NewRepository(dbpool)), auditLogger, authz)
	songsHandler := songs.NewHandler(logger, songs.NewService(songs.NewRepository(dbpool)), auditLogger, authz)
	videosHandler := videos.NewHandler(logger, videos.NewService(videos.NewRepository(dbpool)), auditLogger, authz)

	studentsService := students.NewService(students.NewRepository(dbpool))
	studentsHandler := students.NewHandler(logger, studentsService, auditLogger, authz)

	examsService := exams.NewService(exams.NewRepository(dbpool), studentsService)
	examsHandler := exams.NewHandler(logger, examsService, auditLogger, authz)

	statsCache := stats.NewCache(redisClient, cfg.StatsCacheTTL)
	statsService := stats.NewService(stats.NewRepository(dbpool), statsCache)
	statsHandler := stats.NewHandler(logger, statsService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		IdentityHandler:   identityHandler,
		DictionaryHandler: dictionaryHandler,
		LibraryHandler:    libraryHandler,
		GalleryHandler:    galleryHandler,
		SongsHandler:      songsHandler,
		VideosHandler:     videosHandler,
		StudentsHandler:   studentsHandler,
		ExamsHandler:      examsHandler,
		StatsHandler:      statsHandler,
		StatsService:      statsService,
		JobHandler:        jobHandler,
		Metrics:           metrics,
		MediaDir:          cfg.MediaDir,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// runJobsCommand handles "taihub jobs trigger <name>" and
// "taihub jobs stats" without starting the server.
func runJobsCommand(ctx context.Context, cfg *app.Config, args []string) error {
	jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() {
		_ = jobsCLI.Close()
	}()

	if len(args) == 0 {
		return fmt.Errorf("usage: taihub jobs [trigger <name> | stats]")
	}
	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			return fmt.Errorf("usage: taihub jobs trigger <name>")
		}
		info, err := jobsCLI.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", args[1], info.ID, info.Queue)
		return nil
	case "stats":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
		return nil
	default:
		return fmt.Errorf("unknown jobs subcommand %q", args[0])
	}
}
