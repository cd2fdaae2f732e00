package metrics

import coremetrics "github.com/solhub/solarsched/core/metrics"

// MultiSink fans plan records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlanResult forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordPlanResult(res coremetrics.PlanResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlanResult(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordProduction forwards production snapshots to sinks that accept them.
func (m *MultiSink) RecordProduction(ev coremetrics.ProductionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ProductionRecorder); ok {
			if err := rec.RecordProduction(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordScheduleItem forwards placements to sinks that accept them.
func (m *MultiSink) RecordScheduleItem(ev coremetrics.ScheduleItemEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ScheduleItemRecorder); ok {
			if err := rec.RecordScheduleItem(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
