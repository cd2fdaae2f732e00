package metrics

import (
	"time"

	"github.com/solhub/solarsched/core/model"
)

// PlanResult represents one completed optimization run to be recorded.
type PlanResult struct {
	RunID     string
	Summary   model.Summary
	Requested int // appliances submitted to the scheduler
	Placed    int // appliances that received a slot
	Time      time.Time
}

// MetricsSink records optimization runs for observability purposes.
type MetricsSink interface {
	RecordPlanResult(res PlanResult) error
}

// ProductionEvent is a snapshot of the estimated production schedule.
type ProductionEvent struct {
	RunID    string
	Schedule []model.ProductionPoint
	PeakKW   float64
	TotalKWh float64
	Time     time.Time
}

// ProductionRecorder records production estimates.
type ProductionRecorder interface {
	RecordProduction(ev ProductionEvent) error
}

// ScheduleItemEvent represents one placed appliance.
type ScheduleItemEvent struct {
	RunID string
	Item  model.ScheduleItem
	Time  time.Time
}

// ScheduleItemRecorder records individual placements.
type ScheduleItemRecorder interface {
	RecordScheduleItem(ev ScheduleItemEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlanResult(PlanResult) error { return nil }
