package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealdex/backend/config"
	"github.com/mealdex/backend/internal/api"
	"github.com/mealdex/backend/internal/database"
	"github.com/mealdex/backend/internal/logger"
	"github.com/mealdex/backend/internal/router"
	"github.com/mealdex/backend/internal/service"
)

// Server wires the database, services and HTTP layer together.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New connects to the backing stores, runs migrations and builds the
// router. Redis and S3 are optional: without them the API runs with no
// rate limiting and no image uploads.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.L().Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	var imageService *service.ImageService
	if s3cfg, err := config.NewS3Config(context.Background(), cfg); err != nil {
		logger.L().Warn("object storage unavailable, image uploads disabled", zap.Error(err))
	} else {
		imageService = service.NewImageService(s3cfg)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	tagService := service.NewTagService(db)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService, imageService),
		api.NewTagHandler(tagService),
		authService,
		redisClient,
	)

	engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		db:     db,
		redis:  redisClient,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	logger.L().Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		return sqlDB.Close()
	}
	return nil
}
