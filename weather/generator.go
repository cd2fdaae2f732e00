package weather

import (
	"context"
	"math"
	"time"

	"github.com/solhub/solarsched/core/model"
)

// Generator emits a deterministic synthetic day of hourly weather, usable
// without an API key. Temperature and cloud cover follow simple sinusoidal
// bands so the resulting production curve has a realistic midday peak.
type Generator struct {
	// Now returns the reference time for the generated day. Defaults to
	// time.Now; tests override it.
	Now func() time.Time
}

// NewGenerator creates a Generator using the wall clock.
func NewGenerator() *Generator {
	return &Generator{Now: time.Now}
}

// Forecast returns 24 hourly samples covering the reference day.
func (g *Generator) Forecast(_ context.Context, _ model.Location) ([]model.WeatherSample, error) {
	now := g.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	samples := make([]model.WeatherSample, 0, 24)
	for hour := 0; hour < 24; hour++ {
		ts := day.Add(time.Duration(hour) * time.Hour)

		temp := 20 + 10*math.Sin(2*math.Pi*float64(hour)/24)

		cloud := 30 + 40*math.Sin(2*math.Pi*float64(hour)/24+math.Pi/4)
		cloud = math.Max(0, math.Min(100, cloud))

		samples = append(samples, model.WeatherSample{
			Timestamp:       ts,
			Temperature:     temp,
			CloudCover:      cloud,
			SolarIrradiance: EstimateIrradiance(cloud, ts),
			WindSpeed:       3.0,
			Humidity:        60.0,
		})
	}
	return samples, nil
}
