package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// ErrWeatherUnavailable covers every failure mode of the weather lookup:
// missing API key, network error, non-2xx response. Callers render an
// "unavailable" state and move on.
var ErrWeatherUnavailable = errors.New("weather unavailable")

const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

type WeatherInfo struct {
	TempC       float64 `json:"tempC"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

type openWeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

type WeatherClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
	cache   *gocache.Cache
}

func NewWeatherClient() *WeatherClient {
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY not set, weather lookups will be unavailable")
	}
	return &WeatherClient{
		APIKey:  apiKey,
		BaseURL: defaultWeatherBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		cache:   gocache.New(10*time.Minute, 30*time.Minute),
	}
}

// Current fetches point-in-time weather for a coordinate. Responses are
// cached for a few minutes keyed by rounded coordinates so repeated clicks
// on the same marker don't hammer the provider.
func (w *WeatherClient) Current(ctx context.Context, lat, lng float64) (*WeatherInfo, error) {
	if w.APIKey == "" {
		return nil, ErrWeatherUnavailable
	}

	cacheKey := fmt.Sprintf("%.3f:%.3f", lat, lng)
	if v, ok := w.cache.Get(cacheKey); ok {
		info := v.(WeatherInfo)
		return &info, nil
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lng))
	params.Set("units", "metric")
	params.Set("appid", w.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, ErrWeatherUnavailable
	}

	resp, err := w.HTTP.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("weather request failed")
		return nil, ErrWeatherUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Msg("weather provider returned non-200")
		return nil, ErrWeatherUnavailable
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ErrWeatherUnavailable
	}

	info := WeatherInfo{TempC: body.Main.Temp}
	if len(body.Weather) > 0 {
		info.Icon = body.Weather[0].Icon
		info.Description = body.Weather[0].Description
	}

	w.cache.Set(cacheKey, info, gocache.DefaultExpiration)
	return &info, nil
}
