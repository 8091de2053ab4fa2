package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripatlas/api-go/config"
	"github.com/tripatlas/api-go/types"
	"github.com/tripatlas/api-go/utils"
)

// WeatherController serves the decorative enrichment lookups. Both
// endpoints degrade to an "unavailable" payload on any failure; they never
// surface a 5xx for a provider problem.
type WeatherController struct {
	Weather *config.WeatherClient
	Geocode *config.GeocodeClient
}

func NewWeatherController(weather *config.WeatherClient, geocode *config.GeocodeClient) *WeatherController {
	return &WeatherController{Weather: weather, Geocode: geocode}
}

// GetWeather godoc
// @Summary Point-in-time weather for a coordinate
// @Tags enrichment
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param at query string false "When the activity occurs (RFC3339), informational only"
// @Success 200 {object} map[string]interface{}
// @Router /weather [get]
func (wc *WeatherController) GetWeather(c *gin.Context) {
	var query types.WeatherQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		// older clients send short-form lat/lng params
		lat := utils.ParseFloat(c.Query("lat"))
		lng := utils.ParseFloat(c.Query("lng"))
		if c.Query("lat") == "" || c.Query("lng") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
			return
		}
		query.Latitude = &lat
		query.Longitude = &lng
	}

	info, err := wc.Weather.Current(c.Request.Context(), *query.Latitude, *query.Longitude)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available":   true,
		"tempC":       info.TempC,
		"icon":        info.Icon,
		"description": info.Description,
	})
}

// ReverseGeocode godoc
// @Summary Resolve a coordinate to a display address
// @Tags enrichment
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Success 200 {object} map[string]interface{}
// @Router /geocode/reverse [get]
func (wc *WeatherController) ReverseGeocode(c *gin.Context) {
	var query types.GeocodeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		lat := utils.ParseFloat(c.Query("lat"))
		lng := utils.ParseFloat(c.Query("lng"))
		if c.Query("lat") == "" || c.Query("lng") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
			return
		}
		query.Latitude = &lat
		query.Longitude = &lng
	}

	res, err := wc.Geocode.Reverse(c.Request.Context(), *query.Latitude, *query.Longitude)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available":   true,
		"displayName": res.DisplayName,
	})
}
