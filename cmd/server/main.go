package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"backoffice/internal/api"
	"backoffice/internal/auth"
	"backoffice/internal/config"
	mydb "backoffice/internal/db"
	"backoffice/internal/logging"
)

func main() {
	// .env may sit next to the binary or at the repo root when run from cmd/server
	_ = godotenv.Overload(".env", "../.env", "../../.env")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New("backoffice", cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mydb.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer func() { _ = mydb.Close(db) }()
	if err := mydb.Migrate(db); err != nil {
		return err
	}

	revocations, closeRevocations, err := openRevocations(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRevocations()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL, revocations)
	router := api.NewRouter(api.NewDeps(db, tokens, cfg.SessionSecret, logger))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openRevocations uses redis when REDIS_ADDR is set so logouts survive a
// restart, and an in-memory list otherwise.
func openRevocations(ctx context.Context, cfg config.Config, logger *zap.Logger) (auth.Revocations, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, revoked tokens are forgotten on restart")
		return auth.NewMemoryRevocations(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("token revocations in redis", zap.String("addr", cfg.RedisAddr))
	return auth.NewRedisRevocations(client), func() { _ = client.Close() }, nil
}
