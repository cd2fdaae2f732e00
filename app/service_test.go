package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solhub/solarsched/config"
	"github.com/solhub/solarsched/core/model"
	"github.com/solhub/solarsched/core/solar"
	"github.com/solhub/solarsched/store"
	"github.com/solhub/solarsched/weather"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Solar: solar.Config{
			PanelWattage: 400,
			PanelCount:   12,
			Efficiency:   0.2,
			TiltAngle:    30,
			AzimuthAngle: 180,
			Location:     model.Location{Lat: 48.85, Lon: 2.35},
		},
		Appliances: []config.ApplianceConfig{
			{Name: "Washer", PowerRating: 2, Duration: 2, Flexibility: 8, Priority: "medium"},
			{Name: "Oven", PowerRating: 3, Duration: 1, Flexibility: 2, Priority: "high"},
		},
		Weather: weather.Config{Mode: "synthetic"},
		Store:   store.Config{Path: filepath.Join(t.TempDir(), "history.db")},
	}
	cfg.Scheduler.SetDefaults()
	cfg.Weather.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.HTTP.SetDefaults()
	return cfg
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestRunOncePlacesAppliances(t *testing.T) {
	svc := newTestService(t)

	_, ok := svc.Latest()
	assert.False(t, ok)

	plan, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, plan.RunID)
	assert.Len(t, plan.Production, 24)
	assert.Len(t, plan.Categories, 24)
	// the synthetic forecast always produces daylight hours, both
	// appliances fit within capacity
	assert.Equal(t, 2, plan.Summary.ScheduledAppliances)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, plan.RunID, latest.RunID)
}

func TestRunOncePersistsHistory(t *testing.T) {
	svc := newTestService(t)

	plan, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	stored, err := svc.history.ProductionHistory(plan.RunID)
	require.NoError(t, err)
	assert.Len(t, stored, 24)
}

func TestWindows(t *testing.T) {
	svc := newTestService(t)

	windows, err := svc.Windows(context.Background(), 0.1, 1)
	require.NoError(t, err)
	// low threshold over a synthetic day yields at least one window
	assert.NotEmpty(t, windows)
	for _, w := range windows {
		assert.True(t, w.End.After(w.Start))
	}
}
