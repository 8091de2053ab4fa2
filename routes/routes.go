package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tripatlas/api-go/config"
	"github.com/tripatlas/api-go/controllers"
	"github.com/tripatlas/api-go/mapview"
	"github.com/tripatlas/api-go/middleware"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, store *mapview.Store) {
	// Initialize controllers
	activityController := controllers.NewActivityController(db)
	mapController := controllers.NewMapController(db, store)
	weatherController := controllers.NewWeatherController(config.NewWeatherClient(), config.NewGeocodeClient())

	// Public routes
	public := r.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		SetupActivityRoutes(protected, activityController)
		SetupMapRoutes(protected, mapController)
		SetupWeatherRoutes(protected, weatherController)
	}
}
