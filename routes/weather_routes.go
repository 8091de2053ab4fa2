package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tripatlas/api-go/controllers"
)

func SetupWeatherRoutes(protected *gin.RouterGroup, weatherController *controllers.WeatherController) {
	protected.GET("/weather", weatherController.GetWeather)
	protected.GET("/geocode/reverse", weatherController.ReverseGeocode)
}
