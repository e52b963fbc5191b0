package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"profile-api/internal/config"
	"profile-api/internal/db"
	apihttp "profile-api/internal/http"
	"profile-api/internal/repository"
	"profile-api/internal/service"

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

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	var profileCache service.ProfileCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			profileCache = service.NewRedisProfileCache(redisClient)
		}
		cancel()
	}

	verifier := service.NewJWTVerifier(cfg.AuthJWTSecret, cfg.AuthIssuer)
	profileRepo := repository.NewPgProfileRepository(pool)
	cacheTTL := time.Duration(cfg.ProfileCacheTTLSeconds) * time.Second
	profileSvc := service.NewProfileService(logger, profileRepo, profileCache, cacheTTL)
	profileHandler := apihttp.NewProfileHandler(logger, profileSvc)
	router := apihttp.NewRouter(logger, verifier, profileHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
