package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/milleralan1/sales-prediction-api/internal/middleware"
)

// SetupRoutes настраивает маршруты REST API
func SetupRoutes(predictHandler *PredictHandler, jwtMiddleware *middleware.JWTMiddleware) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	api := r.Group("/api/v1")
	{
		api.POST("/predict", predictHandler.Predict)
		api.GET("/health", predictHandler.Health)
		api.GET("/predictions/:store_id", predictHandler.GetPredictions)
	}

	admin := api.Group("/admin")
	admin.Use(jwtMiddleware.RequireAuth())
	{
		admin.POST("/model/reload", predictHandler.ReloadModel)
	}

	return r
}
