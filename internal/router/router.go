package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mealdex/backend/internal/api"
	"github.com/mealdex/backend/internal/middleware"
)

// SetupRouter configures the application routes. The redis client is
// optional; without it recipe writes are not rate limited.
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	tagHandler *api.TagHandler,
	authService middleware.TokenValidator,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))

	var writeGuards []gin.HandlerFunc
	if redisClient != nil {
		limiter := middleware.NewRecipeWriteRateLimiter(redisClient)
		writeGuards = append(writeGuards, limiter.Middleware())
	}

	recipeHandler.RegisterRoutes(protected, writeGuards...)
	tagHandler.RegisterRoutes(protected)

	return router
}
