package weather

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solhub/solarsched/core/model"
)

func TestGeneratorDayShape(t *testing.T) {
	g := NewGenerator()
	g.Now = func() time.Time { return time.Date(2025, 6, 21, 15, 30, 0, 0, time.UTC) }

	samples, err := g.Forecast(context.Background(), model.Location{Lat: 40.71, Lon: -74.01})
	require.NoError(t, err)
	require.Len(t, samples, 24)

	for i, s := range samples {
		assert.Equal(t, i, s.Timestamp.Hour(), "hour %d", i)
		assert.GreaterOrEqual(t, s.CloudCover, 0.0)
		assert.LessOrEqual(t, s.CloudCover, 100.0)
		assert.GreaterOrEqual(t, s.SolarIrradiance, 0.0)
	}
	// ascending, hourly spaced
	for i := 1; i < len(samples); i++ {
		assert.Equal(t, time.Hour, samples[i].Timestamp.Sub(samples[i-1].Timestamp))
	}
	// night hours carry no irradiance
	assert.Zero(t, samples[0].SolarIrradiance)
	assert.Zero(t, samples[23].SolarIrradiance)
	// midday clearly outshines morning
	assert.Greater(t, samples[12].SolarIrradiance, samples[7].SolarIrradiance)
}

func TestGeneratorDeterministic(t *testing.T) {
	g := NewGenerator()
	g.Now = func() time.Time { return time.Date(2025, 6, 21, 9, 0, 0, 0, time.UTC) }
	a, err := g.Forecast(context.Background(), model.Location{})
	require.NoError(t, err)
	b, err := g.Forecast(context.Background(), model.Location{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEstimateIrradiance(t *testing.T) {
	noon := time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC)
	night := time.Date(2025, 6, 21, 2, 0, 0, 0, time.UTC)

	assert.Zero(t, EstimateIrradiance(0, night))
	assert.InDelta(t, 1000, EstimateIrradiance(0, noon), 1e-9)
	// full cloud cover keeps 20% of clear-sky output
	assert.InDelta(t, 200, EstimateIrradiance(100, noon), 1e-9)
}
