package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pheme-social/pheme-service/internal/cache"
	"github.com/pheme-social/pheme-service/internal/config"
	"github.com/pheme-social/pheme-service/internal/consumer"
	"github.com/pheme-social/pheme-service/internal/domain"
	"github.com/pheme-social/pheme-service/internal/handler"
	"github.com/pheme-social/pheme-service/internal/identity"
	"github.com/pheme-social/pheme-service/internal/middleware"
	"github.com/pheme-social/pheme-service/internal/repository"
	"github.com/pheme-social/pheme-service/internal/service"
	"github.com/pheme-social/pheme-service/pkg/database"
	pkglog "github.com/pheme-social/pheme-service/pkg/log"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// 2. Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "pheme-service",
	})
	logger := pkglog.L()

	// 3. Init DB (GORM, auto-migrate all models)
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get underlying sql.DB")
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.PhemeModel{},
		&domain.FriendModel{},
		&domain.FollowerModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Msg("database migration completed")

	// 4. Init Redis user cache
	userCache, err := cache.NewRedisUserCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.Prefix)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer userCache.Close()
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")

	// 5. Create repositories and services
	userRepo := repository.NewGormUserRepository(db)
	phemeRepo := repository.NewGormPhemeRepository(db)
	graphRepo := repository.NewGormGraphRepository(db)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	directorySvc := service.NewDirectoryService(userRepo, phemeRepo, graphRepo, userCache, cacheTTL)
	phemeSvc := service.NewPhemeService(phemeRepo, userRepo, graphRepo)
	graphSvc := service.NewSocialGraphService(graphRepo, userRepo)

	// 6. Create cookie auth middleware
	resolver := identity.NewJWTResolver(cfg.Auth.JWTSecret, directorySvc)
	authMiddleware := middleware.NewAuthMiddleware(resolver, cfg.Auth.CookieName)

	// 7. Init Kafka consumer for auth-service user lifecycle events
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var kafkaConsumer *consumer.ConfluentConsumer
	if cfg.Kafka.Brokers != "" {
		kc, err := consumer.NewConfluentConsumer(
			cfg.Kafka.Brokers,
			cfg.Kafka.Topic,
			cfg.Kafka.GroupID,
			directorySvc, // service implements UserEventHandler
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to create kafka consumer, user sync disabled")
		} else {
			if err := kc.Start(ctx); err != nil {
				logger.Warn().Err(err).Msg("failed to start kafka consumer")
			} else {
				kafkaConsumer = kc
				logger.Info().Str("topic", cfg.Kafka.Topic).Msg("kafka user-event consumer started")
			}
		}
	} else {
		logger.Warn().Msg("KAFKA_BROKERS not configured; user sync consumer disabled")
	}

	// 8. Setup Gin router + HTTP server
	httpHandler := handler.NewHandler(phemeSvc, graphSvc, directorySvc, authMiddleware)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	httpHandler.RegisterRoutes(r)

	// 9. Start server goroutine
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info().Str("addr", addr).Msg("pheme-service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// 10. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		// Stop the consumer loop first so no event lands mid-drain.
		cancel()

		if kafkaConsumer != nil {
			if err := kafkaConsumer.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing kafka consumer")
			}
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("HTTP server forced to shutdown")
		}
	}()

	select {
	case <-shutdownDone:
		logger.Info().Msg("pheme-service stopped")
	case <-time.After(30 * time.Second):
		logger.Warn().Msg("shutdown timed out after 30s")
	}
}
