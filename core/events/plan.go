package events

import (
	"time"

	"github.com/solhub/solarsched/core/model"
)

// ForecastEvent is published when a new weather forecast has been retrieved.
type ForecastEvent struct {
	Samples []model.WeatherSample
	Source  string
	Time    time.Time
}

// PlanEvent is published after each optimization run.
type PlanEvent struct {
	RunID           string
	Production      []model.ProductionPoint
	Schedule        []model.ScheduleItem
	Summary         model.Summary
	Recommendations []string
	Requested       int // appliances submitted to the scheduler
	Time            time.Time
}
