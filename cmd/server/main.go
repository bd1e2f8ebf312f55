package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/benbeisheim/chess-backend/internal/bootstrap"
	"github.com/benbeisheim/chess-backend/internal/controller"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/store"
)

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}
	logger := NewLogger(cfg.LogDevelopment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions, archive := initStores(ctx, logger, *cfg)
	defer sessions.Close(context.Background())
	defer archive.Close(context.Background())

	// Initialize services
	gameManager := service.NewGameManager(sessions, archive, cfg.ClockTime(), logger)
	gameService := service.NewGameService(gameManager)

	app := controller.NewApp(gameService, logger, cfg.AllowedOrigins)

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logger.Info("received shutdown signal")
		cancel()
		if err := app.Shutdown(); err != nil {
			logger.Errorw("shutdown failed", "error", err)
		}
	}()

	logger.Infow("server is running", "addr", cfg.ListenAddr())
	if err := app.Listen(cfg.ListenAddr()); err != nil {
		logger.Fatalw("failed to start server", "error", err)
	}
}

func NewLogger(development bool) *zap.SugaredLogger {
	build := zap.NewProduction
	if development {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

// initStores picks Redis and MongoDB when configured and falls back to
// memory otherwise.
func initStores(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) (store.SessionStore, store.Archive) {
	var sessions store.SessionStore = store.NewMemoryStore()
	if cfg.RedisUrl != "" {
		redisStore, err := store.NewRedisStore(ctx, cfg.RedisUrl, cfg.SessionTTL, log)
		if err != nil {
			log.Fatalw("failed to initialize redis", "error", err)
		}
		sessions = redisStore
	}

	var archive store.Archive = &store.MemoryArchive{}
	if cfg.MongoUri != "" {
		mongoArchive, err := store.NewMongoArchive(ctx, cfg.MongoUri, cfg.MongoDatabase, log)
		if err != nil {
			log.Fatalw("failed to initialize mongodb", "error", err)
		}
		archive = mongoArchive
	}
	return sessions, archive
}
