package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": "v1.0.0",
	})
}

// RegisterRoutes wires services and handlers onto the router. The redis
// client and S3 config may be nil; rate limiting and image upload then
// stay disabled.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config, cfg *config.Config) {
	router.GET("/health", HealthCheck)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	toggleService := service.NewToggleService(db)
	shoppingListService := service.NewShoppingListService(db)
	subscriptionService := service.NewSubscriptionService(db)
	userService := service.NewUserService(db)
	imageService := service.NewImageService(s3Config)

	var creationLimiter *middleware.RateLimiter
	if redisClient != nil {
		creationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewUserHandler(userService, toggleService, subscriptionService, authService).RegisterRoutes(v1)
	NewTagHandler(db).RegisterRoutes(v1)
	NewIngredientHandler(db).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, toggleService, shoppingListService, imageService, authService, creationLimiter).RegisterRoutes(v1)
}
