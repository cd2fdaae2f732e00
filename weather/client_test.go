package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solhub/solarsched/core/model"
)

func testClientConfig(baseURL string) Config {
	cfg := Config{Mode: "api", APIKey: "test-key", BaseURL: baseURL, MinIntervalMS: 1}
	cfg.SetDefaults()
	cfg.BaseURL = baseURL
	cfg.MinIntervalMS = 1
	return cfg
}

func TestClientForecast(t *testing.T) {
	noon := time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[{"dt":` + strconv.FormatInt(noon.Unix(), 10) + `,"main":{"temp":24.5,"humidity":55},"clouds":{"all":10},"wind":{"speed":4.2}}]}`))
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	samples, err := c.Forecast(context.Background(), model.Location{Lat: 40.71, Lon: -74.01})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 24.5, samples[0].Temperature)
	assert.Equal(t, 10.0, samples[0].CloudCover)
	assert.Equal(t, 55.0, samples[0].Humidity)
	assert.Equal(t, 4.2, samples[0].WindSpeed)
	assert.Greater(t, samples[0].SolarIrradiance, 0.0)
}

func TestClientRateLimitSpacesCalls(t *testing.T) {
	cfg := Config{Mode: "api", APIKey: "test-key", MinIntervalMS: 50}
	cfg.SetDefaults()
	cfg.MinIntervalMS = 50
	c := NewClient(cfg)

	start := time.Now()
	c.rateLimit()
	c.rateLimit()
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestClientRateLimitReservesSlotBeforeSleeping(t *testing.T) {
	cfg := Config{Mode: "api", APIKey: "test-key", MinIntervalMS: 50}
	cfg.SetDefaults()
	cfg.MinIntervalMS = 50
	c := NewClient(cfg)

	c.rateLimit()
	done := make(chan struct{})
	go func() {
		c.rateLimit()
		close(done)
	}()

	// the sleeping goroutine must not hold the mutex for its full wait
	time.Sleep(10 * time.Millisecond)
	if !c.mu.TryLock() {
		t.Fatal("mutex held while waiting out the rate-limit interval")
	}
	c.mu.Unlock()
	<-done
}

func TestClientForecastServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	_, err := c.Forecast(context.Background(), model.Location{})
	require.Error(t, err)
}

func TestClientBreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	for i := 0; i < 5; i++ {
		_, err := c.Forecast(context.Background(), model.Location{})
		require.Error(t, err)
	}
	// breaker is now open: the request fails without reaching the server
	srv.Close()
	_, err := c.Forecast(context.Background(), model.Location{})
	require.Error(t, err)
}

func TestClientForecastBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(testClientConfig(srv.URL))
	_, err := c.Forecast(context.Background(), model.Location{})
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Mode: "api"}
	require.Error(t, cfg.Validate())
	cfg.APIKey = "k"
	require.NoError(t, cfg.Validate())
	cfg = Config{Mode: "synthetic"}
	require.NoError(t, cfg.Validate())
	cfg = Config{Mode: "carrier-pigeon"}
	require.Error(t, cfg.Validate())
}
