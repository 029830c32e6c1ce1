// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sahib-ng/sahib-backend/internal/admin"
	"github.com/sahib-ng/sahib-backend/internal/auth"
	"github.com/sahib-ng/sahib-backend/internal/config"
	"github.com/sahib-ng/sahib-backend/internal/core"
	"github.com/sahib-ng/sahib-backend/internal/health"
	"github.com/sahib-ng/sahib-backend/internal/middleware"
	"github.com/sahib-ng/sahib-backend/internal/provider"
	"github.com/sahib-ng/sahib-backend/internal/request"
	"github.com/sahib-ng/sahib-backend/internal/server"
	"github.com/sahib-ng/sahib-backend/internal/user"
)

const (
	drainDelay = 5 * time.Second

	otpRequestsPerMinute = 5
	otpBurst             = 2
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("genkeys", false, "generate an ES256 key pair and exit")
	privateKeyPath := flag.String("private-key", "keys/private.pem", "private key output path")
	publicKeyPath := flag.String("public-key", "keys/public.pem", "public key output path")
	flag.Parse()

	if *genKeys {
		if err := auth.GenerateKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
			slog.Error("key generation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("key pair written",
			"private", *privateKeyPath,
			"public", *publicKeyPath,
		)
		return
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	startingBalance, err := cfg.Wallet.StartingBalanceAmount()
	if err != nil {
		return err
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, startingBalance)
	userHandler := user.NewHandler(userSvc)

	providerRepo := provider.NewRepository(db.DB)
	providerSvc := provider.NewService(providerRepo, userSvc, logger)
	providerHandler := provider.NewHandler(providerSvc)

	requestRepo := request.NewRepository(db.DB)
	requestSvc := request.NewService(requestRepo, cfg.Escrow.StrictPayout, logger)
	requestHandler := request.NewHandler(requestSvc)

	otpStore := auth.NewOTPStore(redis, cfg.OTP)
	authSvc := auth.NewService(userSvc, otpStore, jwtManager, logger)
	authHandler := auth.NewHandler(authSvc)

	healthHandler := health.NewHandler(db, redis, cfg.App.Name, cfg.App.Version)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:     db.Stats,
		RedisStats:  redis.PoolStats,
		DBPing:      db.Ping,
		RedisPing:   redis.Ping,
		Marketplace: requestSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager)
	adminOnly := middleware.RequireAdmin

	// OTP issuance gets a tighter per-IP limit than the global one so a
	// single caller cannot farm codes.
	otpLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(otpRequestsPerMinute, otpBurst),
		KeyFunc:  middleware.KeyByIP,
		FailOpen: false,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, otpLimiter)
		userHandler.RegisterRoutes(r, authenticator)
		providerHandler.RegisterRoutes(r, authenticator, adminOnly)
		requestHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	healthHandler.SetReady(true)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
