// Package weatherapi provides WeatherSource adapters: a live
// OpenWeatherMap client and a fixed source for development and tests.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/weather"
	"fleetops/internal/pkg/clock"
)

const (
	// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

	// cacheTTL is how long a fetched reading is served before the
	// provider is asked again for the same coordinates.
	cacheTTL = 5 * time.Minute

	// defaultVisibilityMeters is assumed when the provider omits the
	// visibility field.
	defaultVisibilityMeters = 10000
)

type cacheEntry struct {
	reading   weather.Reading
	fetchedAt time.Time
}

// OpenWeatherClient fetches current conditions from OpenWeatherMap.
// Responses are cached per rounded coordinate pair so repeated
// assignment checks for the same destination do not hammer the API.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewOpenWeatherClient creates a client for the given API key.
func NewOpenWeatherClient(apiKey string, clk clock.Clock, logger *slog.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		clock:      clk,
		logger:     logger.With("component", "weather"),
		cache:      make(map[string]cacheEntry),
	}
}

// currentResponse mirrors the fields of the OpenWeatherMap payload the
// gate cares about.
type currentResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Visibility *float64 `json:"visibility"`
}

// Current returns the latest observation for the given point, serving
// a cached reading when one is fresh enough.
func (c *OpenWeatherClient) Current(ctx context.Context, at kernel.GeoPoint) (weather.Reading, error) {
	now := c.clock.Now()
	key := fmt.Sprintf("%.4f,%.4f", at.Latitude(), at.Longitude())

	c.mu.Lock()
	entry, ok := c.cache[key]
	c.mu.Unlock()
	if ok && now.Sub(entry.fetchedAt) < cacheTTL {
		return entry.reading, nil
	}

	reading, err := c.fetch(ctx, at, now)
	if err != nil {
		return weather.Reading{}, err
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{reading: reading, fetchedAt: now}
	c.mu.Unlock()

	return reading, nil
}

func (c *OpenWeatherClient) fetch(ctx context.Context, at kernel.GeoPoint, now time.Time) (weather.Reading, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.4f", at.Latitude()))
	params.Set("lon", fmt.Sprintf("%.4f", at.Longitude()))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return weather.Reading{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Reading{}, fmt.Errorf("weather request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return weather.Reading{}, fmt.Errorf("weather provider returned %d: %s", resp.StatusCode, body)
	}

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("weather response: %w", err)
	}

	visibilityMeters := float64(defaultVisibilityMeters)
	if payload.Visibility != nil {
		visibilityMeters = *payload.Visibility
	}

	reading, err := weather.NewReading(
		payload.Wind.Speed,
		payload.Rain.OneHour,
		visibilityMeters/1000,
		payload.Main.Temp,
		now,
	)
	if err != nil {
		return weather.Reading{}, err
	}

	c.logger.Info("weather fetched",
		"lat", at.Latitude(),
		"lon", at.Longitude(),
		"wind_mps", payload.Wind.Speed,
		"temp_c", payload.Main.Temp,
	)

	return reading, nil
}
