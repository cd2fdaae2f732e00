package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solhub/solarsched/core/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadProduction(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	schedule := []model.ProductionPoint{
		{Timestamp: base, OutputKW: 1.5},
		{Timestamp: base.Add(time.Hour), OutputKW: 3.2},
	}
	require.NoError(t, s.SaveProduction("run-1", schedule))

	got, err := s.ProductionHistory("run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, base, got[0].Timestamp)
	assert.InDelta(t, 1.5, got[0].OutputKW, 1e-9)
	assert.InDelta(t, 3.2, got[1].OutputKW, 1e-9)
}

func TestSaveForecast(t *testing.T) {
	s := newTestStore(t)
	samples := []model.WeatherSample{
		{
			Timestamp:       time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
			Temperature:     25,
			CloudCover:      10,
			SolarIrradiance: 800,
			WindSpeed:       3,
			Humidity:        60,
		},
	}
	require.NoError(t, s.SaveForecast("run-2", samples))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM weather_samples WHERE run_id = ?`, "run-2").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRunIDsMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	point := []model.ProductionPoint{{Timestamp: time.Now().UTC(), OutputKW: 1}}
	require.NoError(t, s.SaveProduction("first", point))
	require.NoError(t, s.SaveProduction("second", point))

	ids, err := s.RunIDs(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, ids)
}

func TestProductionHistoryUnknownRun(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ProductionHistory("missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
