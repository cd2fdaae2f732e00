package model

import "fmt"

// Priority orders appliances during scheduling. Higher values are placed first.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParsePriority converts a configuration string into a Priority.
// Unrecognized values default to medium.
func ParsePriority(s string) Priority {
	switch s {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Appliance describes a flexible household load to be scheduled.
type Appliance struct {
	Name        string   `json:"name"`
	PowerRating float64  `json:"power_rating"` // kW
	Duration    float64  `json:"duration"`     // hours
	Flexibility int      `json:"flexibility"`  // 0-10, higher = more freedom
	Priority    Priority `json:"priority"`
}

// Validate checks that the appliance definition is sound.
func (a Appliance) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("appliance name is required")
	}
	if a.PowerRating <= 0 {
		return fmt.Errorf("appliance %s: power rating must be positive", a.Name)
	}
	if a.Duration <= 0 {
		return fmt.Errorf("appliance %s: duration must be positive", a.Name)
	}
	if a.Flexibility < 0 || a.Flexibility > 10 {
		return fmt.Errorf("appliance %s: flexibility must be between 0 and 10", a.Name)
	}
	return nil
}

// Energy returns the total energy the appliance consumes over a full run in kWh.
func (a Appliance) Energy() float64 {
	return a.PowerRating * a.Duration
}
