package metrics

import (
	"context"
	"time"

	"github.com/solhub/solarsched/core/events"
	coremetrics "github.com/solhub/solarsched/core/metrics"
	"github.com/solhub/solarsched/core/solar"
	"github.com/solhub/solarsched/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// planning events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.PlanEvent:
					_ = sink.RecordPlanResult(coremetrics.PlanResult{
						RunID:     e.RunID,
						Summary:   e.Summary,
						Requested: e.Requested,
						Placed:    len(e.Schedule),
						Time:      e.Time,
					})
					if rec, ok := sink.(coremetrics.ProductionRecorder); ok {
						stats := solar.Stats(e.Production)
						_ = rec.RecordProduction(coremetrics.ProductionEvent{
							RunID:    e.RunID,
							Schedule: e.Production,
							PeakKW:   stats.PeakKW,
							TotalKWh: stats.TotalKWh,
							Time:     time.Now(),
						})
					}
					if rec, ok := sink.(coremetrics.ScheduleItemRecorder); ok {
						for _, item := range e.Schedule {
							_ = rec.RecordScheduleItem(coremetrics.ScheduleItemEvent{
								RunID: e.RunID,
								Item:  item,
								Time:  time.Now(),
							})
						}
					}
				}
			}
		}
	}()
}
