package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tripatlas/api-go/controllers"
)

func SetupMapRoutes(protected *gin.RouterGroup, mapController *controllers.MapController) {
	sessions := protected.Group("/map/sessions")
	{
		sessions.POST("", mapController.CreateSession)
		sessions.GET("/:id", mapController.GetSession)
		sessions.POST("/:id/click", mapController.Click)
		sessions.POST("/:id/cluster-click", mapController.ClusterClick)
		sessions.POST("/:id/refresh", mapController.RefreshSession)
		sessions.DELETE("/:id", mapController.DeleteSession)
	}
}
