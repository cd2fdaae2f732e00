// Package events defines the planning related events emitted on the event bus.
//
// Available event types:
//   - ForecastEvent: new weather forecast retrieved
//   - PlanEvent: completed optimization run
package events
