package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/solhub/solarsched/core/model"
	"github.com/solhub/solarsched/infra/logger"
)

// maxIrradianceWM2 is clear-sky irradiance at sea level used for estimation.
const maxIrradianceWM2 = 1000

// cloudAttenuation is the fraction of irradiance lost under full cloud cover.
const cloudAttenuation = 0.8

// Source produces an ordered hourly weather forecast for a site.
type Source interface {
	Forecast(ctx context.Context, loc model.Location) ([]model.WeatherSample, error)
}

// Client fetches forecasts from an OpenWeatherMap-style endpoint. Requests are
// rate limited and guarded by a circuit breaker so a flapping provider cannot
// stall the planning loop.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     logger.Logger

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient creates a Client from the configuration.
func NewClient(cfg Config) *Client {
	log := logger.New("weather-client")
	settings := gobreaker.Settings{
		Name:    "weather-api",
		Timeout: cfg.breakerTimeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker %s: %s -> %s", name, from, to)
		},
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.timeout()},
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

// Forecast fetches the provider forecast and derives irradiance estimates
// from cloud cover. Samples are returned in provider order, which is
// ascending by timestamp.
func (c *Client) Forecast(ctx context.Context, loc model.Location) ([]model.WeatherSample, error) {
	c.rateLimit()

	body, err := c.breaker.Execute(func() (any, error) {
		return c.get(ctx, loc)
	})
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}

	var resp forecastResponse
	if err := json.Unmarshal(body.([]byte), &resp); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	samples := make([]model.WeatherSample, 0, len(resp.List))
	for _, item := range resp.List {
		ts := time.Unix(item.Dt, 0)
		samples = append(samples, model.WeatherSample{
			Timestamp:       ts,
			Temperature:     item.Main.Temp,
			CloudCover:      item.Clouds.All,
			SolarIrradiance: EstimateIrradiance(item.Clouds.All, ts),
			WindSpeed:       item.Wind.Speed,
			Humidity:        item.Main.Humidity,
		})
	}
	c.log.Infof("fetched %d forecast samples", len(samples))
	return samples, nil
}

func (c *Client) get(ctx context.Context, loc model.Location) ([]byte, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	q.Set("appid", c.cfg.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Errorf("close response body: %v", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// rateLimit enforces the minimum interval between provider requests. Each
// caller reserves its slot under the lock and sleeps outside it, so waiting
// callers do not serialize each other for the full interval.
func (c *Client) rateLimit() {
	c.mu.Lock()
	now := time.Now()
	next := c.lastCall.Add(c.cfg.minInterval())
	wait := next.Sub(now)
	if wait > 0 {
		c.lastCall = next
	} else {
		c.lastCall = now
	}
	c.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}
}

// EstimateIrradiance derives solar irradiance in W/m² from cloud cover and
// the hour of day. Outside 06:00-18:00 the estimate is zero; clouds reduce
// irradiance by up to 80%.
func EstimateIrradiance(cloudCover float64, ts time.Time) float64 {
	hour := ts.Hour()
	if hour < 6 || hour > 18 {
		return 0
	}
	sunElevation := math.Abs(math.Sin(math.Pi * float64(hour-6) / 12))
	cloudFactor := 1 - (cloudCover/100)*cloudAttenuation
	return math.Max(0, maxIrradianceWM2*sunElevation*cloudFactor)
}
