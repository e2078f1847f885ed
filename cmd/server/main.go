package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/crypto-dca-backend/internal/config"
	"github.com/AnshRaj112/crypto-dca-backend/internal/database"
	"github.com/AnshRaj112/crypto-dca-backend/internal/logger"
	"github.com/AnshRaj112/crypto-dca-backend/internal/observability"
	"github.com/AnshRaj112/crypto-dca-backend/internal/repository"
	"github.com/AnshRaj112/crypto-dca-backend/internal/routes"
	"github.com/AnshRaj112/crypto-dca-backend/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title crypto-dca-backend API
// @version 1.0.0
// @description Accounts, watch pairs and DCA transaction history for the crypto DCA app.
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-KEY
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token. Format: "Bearer {token}".
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, !cfg.IsProduction()); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg); err != nil {
		logger.Log.Fatalw("application stopped with error", "err", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if names := cfg.DefaultSecrets(); len(names) > 0 {
		logger.Log.Warnw("using built-in JWT secrets", "vars", names)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reporter observability.Reporter = observability.NopReporter{}
	enabled, err := observability.InitSentry(cfg.SentryDSN, cfg.Environment, cfg.SentryTracesSampleRate)
	if err != nil {
		logger.Log.Warnw("sentry initialization failed", "err", err)
	} else if enabled {
		reporter = observability.SentryReporter{}
		defer observability.Flush(2 * time.Second)
	}

	st, cleanup, err := openStores(ctx, cfg, reporter)
	if err != nil {
		return err
	}
	defer cleanup()

	tokens := services.NewTokenService(services.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		ResetSecret:   cfg.ResetPasswordTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		ResetTTL:      cfg.ResetPasswordTokenTTL,
	}, st.refreshTokens)
	credentials := services.NewCredentialService(st.users)
	auth := services.NewAuthService(credentials, tokens, st.users, services.LogMailer{}, cfg.ResetPasswordURL)

	if cfg.GatewayKey == "" {
		logger.Log.Warn("API_GATEWAY_KEY not set: gateway key check disabled")
	}

	r := routes.NewRouter(routes.Deps{
		Auth:               auth,
		Users:              services.NewUserService(st.users),
		Verifier:           tokens,
		Reporter:           reporter,
		GatewayKey:         cfg.GatewayKey,
		RequireBearerUsers: cfg.RequireBearerUsers,
		AllowedOrigins:     cfg.AllowedOrigins,
		TrustProxy:         cfg.TrustProxyHeaders,
		HSTS:               cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Log.Infow("crypto-dca backend listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("shutdown signal received, stopping HTTP server")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "err", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

type stores struct {
	users         repository.UserStore
	refreshTokens repository.RefreshTokenStore
}

// openStores connects the backends selected by STORAGE_DRIVER and
// REFRESH_TOKEN_STORE. The returned cleanup closes every connection it opened.
func openStores(ctx context.Context, cfg *config.Config, reporter observability.Reporter) (stores, func(), error) {
	var (
		out     stores
		closers []func()
		mongoDB *database.Mongo
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	needsDB := cfg.StorageDriver == config.StorageMongo || cfg.RefreshTokenStore == config.StorageMongo
	if needsDB {
		mongoDB = database.NewMongo(cfg.MongoURI, cfg.DBName)
		if err := mongoDB.Connect(ctx); err != nil {
			return out, cleanup, fmt.Errorf("connect mongodb: %w", err)
		}
		mongoDB.OnReconnectFailure = func(err error) {
			reporter.CaptureException(context.Background(), err)
		}

		superviseCtx, cancel := context.WithCancel(ctx)
		go mongoDB.Supervise(superviseCtx, cfg.MongoSupervise)
		closers = append(closers, func() {
			cancel()
			if err := mongoDB.Disconnect(); err != nil {
				logger.Log.Warnw("mongodb disconnect failed", "err", err)
			}
		})
	}

	switch cfg.StorageDriver {
	case config.StorageMongo:
		users := repository.NewMongoUserStore(mongoDB)
		if err := users.EnsureIndexes(ctx); err != nil {
			return out, cleanup, fmt.Errorf("ensure user indexes: %w", err)
		}
		out.users = users
	case config.StorageMemory:
		logger.Log.Warn("using in-memory user store: data is lost on restart")
		out.users = repository.NewMemoryUserStore()
	default:
		return out, cleanup, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.RefreshTokenStore {
	case config.StorageMongo:
		tokens := repository.NewMongoRefreshTokenStore(mongoDB)
		if err := tokens.EnsureIndexes(ctx); err != nil {
			return out, cleanup, fmt.Errorf("ensure refresh token indexes: %w", err)
		}
		out.refreshTokens = tokens
	case config.StorageRedis:
		client, err := database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			return out, cleanup, fmt.Errorf("connect redis: %w", err)
		}
		closers = append(closers, func() { closeRedis(client) })
		out.refreshTokens = repository.NewRedisRefreshTokenStore(client)
	case config.StorageMemory:
		out.refreshTokens = repository.NewMemoryRefreshTokenStore()
	default:
		return out, cleanup, fmt.Errorf("unknown REFRESH_TOKEN_STORE %q", cfg.RefreshTokenStore)
	}

	return out, cleanup, nil
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		logger.Log.Warnw("redis close failed", "err", err)
	}
}
