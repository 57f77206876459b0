package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	api.RegisterRoutes(router, db, redisClient, s3Config, cfg)

	return router
}
