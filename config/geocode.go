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

var ErrGeocodeUnavailable = errors.New("reverse geocode unavailable")

const defaultGeocodeBaseURL = "https://nominatim.openstreetmap.org/reverse"

type GeocodeResult struct {
	DisplayName string `json:"displayName"`
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

type GeocodeClient struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
	cache     *gocache.Cache
}

func NewGeocodeClient() *GeocodeClient {
	userAgent := os.Getenv("GEOCODE_USER_AGENT")
	if userAgent == "" {
		userAgent = "tripatlas-api/1.0"
	}
	return &GeocodeClient{
		BaseURL:   defaultGeocodeBaseURL,
		UserAgent: userAgent,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
		// addresses don't move, cache them for a day
		cache: gocache.New(24*time.Hour, time.Hour),
	}
}

// Reverse resolves a coordinate to a human-readable address. Failures map
// to ErrGeocodeUnavailable; the lookup is decorative and never blocks the
// surrounding flow.
func (g *GeocodeClient) Reverse(ctx context.Context, lat, lng float64) (*GeocodeResult, error) {
	cacheKey := fmt.Sprintf("%.5f:%.5f", lat, lng)
	if v, ok := g.cache.Get(cacheKey); ok {
		res := v.(GeocodeResult)
		return &res, nil
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lng))
	params.Set("format", "jsonv2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, ErrGeocodeUnavailable
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.HTTP.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("reverse geocode request failed")
		return nil, ErrGeocodeUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrGeocodeUnavailable
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ErrGeocodeUnavailable
	}
	if body.DisplayName == "" {
		return nil, ErrGeocodeUnavailable
	}

	res := GeocodeResult{DisplayName: body.DisplayName}
	g.cache.Set(cacheKey, res, gocache.DefaultExpiration)
	return &res, nil
}
