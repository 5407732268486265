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

	"salary-api/internal/config"
	"salary-api/internal/db"
	"salary-api/internal/email"
	apihttp "salary-api/internal/http"
	"salary-api/internal/ml"
	"salary-api/internal/repository"
	"salary-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.DBRunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	catalogRepo := repository.NewPgCatalogRepository(pool)
	historyRepo := repository.NewPgHistoryRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		codeStore   service.CodeStore
		otpLimiter  service.OTPRateLimiter
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory code store", zap.Error(err))
		} else {
			codeStore = service.NewRedisCodeStore(redisClient)
			otpLimiter = service.NewRedisOTPRateLimiter(redisClient, cfg.OTPRateWindow(), cfg.OTPRateMax, logger)
		}
		cancel()
	}
	if otpLimiter == nil {
		otpLimiter = service.NewOTPRateLimiter(cfg.OTPRateWindow(), cfg.OTPRateMax)
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTTTL())
	userSvc := service.NewUserService(logger, userRepo, service.UserServiceDeps{
		EmailSender: emailSender,
		Codes:       codeStore,
		OTPLimiter:  otpLimiter,
		CodeTTL:     cfg.CodeTTL(),
	})

	estimator := service.NewSalaryEstimator(logger, newRegressor(cfg, logger))
	catalogSvc := service.NewCatalogService(catalogRepo)
	predictionSvc := service.NewPredictionService(logger, estimator, historyRepo)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := apihttp.NewRouter(logger, apihttp.RouterDeps{
		Users:          apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		Catalog:        apihttp.NewCatalogHandler(logger, catalogSvc),
		Predictions:    apihttp.NewPredictionHandler(logger, predictionSvc),
		JWT:            jwtSvc,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		ctxShutdown, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newRegressor prefiere el servidor remoto; si no, carga el artefacto local una sola vez.
func newRegressor(cfg *config.Config, logger *zap.Logger) ml.Regressor {
	if cfg.MLServerURL != "" {
		logger.Info("using remote model server", zap.String("url", cfg.MLServerURL))
		return ml.NewHTTPClient(cfg.MLServerURL, 5*time.Second, logger)
	}

	loader := ml.NewOnceLoader(ml.FileLoader(ml.CandidatePaths(cfg.ModelPath)))
	if _, err := loader.Model(); err != nil {
		logger.Warn("salary model unavailable, heuristic fallback only", zap.Error(err))
	} else {
		logger.Info("salary model loaded")
	}
	return loader
}
