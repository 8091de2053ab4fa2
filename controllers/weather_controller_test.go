package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tripatlas/api-go/config"
)

func newWeatherRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// no API key configured: every lookup degrades, nothing panics
	wc := NewWeatherController(&config.WeatherClient{}, &config.GeocodeClient{})
	r.GET("/api/weather", wc.GetWeather)
	return r
}

func TestGetWeatherDegradesWithoutAPIKey(t *testing.T) {
	r := newWeatherRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/weather?latitude=36.8&longitude=10.2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":false}`, w.Body.String())
}

func TestGetWeatherRequiresCoordinates(t *testing.T) {
	r := newWeatherRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/weather?latitude=36.8", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
