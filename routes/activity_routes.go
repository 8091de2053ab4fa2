package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tripatlas/api-go/controllers"
)

func SetupActivityRoutes(protected *gin.RouterGroup, activityController *controllers.ActivityController) {
	activities := protected.Group("/activities")
	{
		activities.GET("", activityController.ListActivities)
		activities.POST("", activityController.CreateActivity)
		activities.GET("/markers", activityController.GetMarkers)
		activities.GET("/journey", activityController.GetJourney)
		activities.GET("/:id", activityController.GetActivity)
		activities.PATCH("/:id/join", activityController.JoinActivity)
	}
}
