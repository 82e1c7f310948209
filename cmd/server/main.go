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

	"github.com/ErlanBelekov/shiptrack/config"
	"github.com/ErlanBelekov/shiptrack/internal/credential"
	"github.com/ErlanBelekov/shiptrack/internal/email"
	"github.com/ErlanBelekov/shiptrack/internal/health"
	"github.com/ErlanBelekov/shiptrack/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/shiptrack/internal/infrastructure/redis"
	ctxlog "github.com/ErlanBelekov/shiptrack/internal/log"
	"github.com/ErlanBelekov/shiptrack/internal/metrics"
	httptransport "github.com/ErlanBelekov/shiptrack/internal/transport/http"
	"github.com/ErlanBelekov/shiptrack/internal/transport/http/handler"
	"github.com/ErlanBelekov/shiptrack/internal/transport/http/middleware"
	"github.com/ErlanBelekov/shiptrack/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())
	if cfg.UsingDemoSecret {
		logger.Warn("JWT_SECRET not set, using the local demo secret")
	}

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if cfg.AutoMigrate {
		if err := postgres.Migrate(cfg.DatabaseURL, logger); err != nil {
			stop()
			log.Fatalf("migrate: %v", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer).Add("postgres", pool)

	// Redis only backs rate limiting, so the API runs without it.
	var limiter middleware.HitCounter
	if cfg.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer rdb.Close()
			limiter = redis.NewWindowCounter(rdb, time.Minute)
			checker.Add("redis", health.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}))
		}
	}

	// Credentials
	hasher := credential.NewPasswordHasher(cfg.BcryptCost)
	tokens := credential.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	ids := credential.Generator{}

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	codeRepo := postgres.NewVerificationCodeRepository(pool)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, hasher, tokens)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	verificationUsecase := usecase.NewVerificationUsecase(codeRepo, userRepo, sender, ids, cfg.VerificationCodeTTL, logger)
	shipmentUsecase := usecase.NewShipmentUsecase(shipmentRepo, eventRepo, serviceRepo, ids, logger)
	adminUsecase := usecase.NewAdminUsecase(userRepo, shipmentRepo, shipmentUsecase, logger)
	catalogUsecase := usecase.NewCatalogUsecase(serviceRepo)
	subscriptionUsecase := usecase.NewSubscriptionUsecase(subscriptionRepo, shipmentRepo, logger)

	router := httptransport.NewRouter(logger, httptransport.Deps{
		Auth:           handler.NewAuthHandler(authUsecase, logger),
		Verification:   handler.NewVerificationHandler(verificationUsecase, logger),
		Shipments:      handler.NewShipmentHandler(shipmentUsecase, logger),
		Admin:          handler.NewAdminHandler(adminUsecase, logger),
		Catalog:        handler.NewCatalogHandler(catalogUsecase, subscriptionUsecase, logger),
		Tokens:         tokens,
		Users:          userRepo,
		RateLimiter:    limiter,
		RateLimitMax:   cfg.RateLimitPerMinute,
		AllowedOrigins: cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
	})

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
