package model

import "time"

// ScheduleItem is one placed appliance run with its derived metrics.
type ScheduleItem struct {
	Appliance     Appliance `json:"appliance"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	SolarCoverage float64   `json:"solar_coverage"` // 0-1 fraction of energy met by solar
	GridUsage     float64   `json:"grid_usage"`     // kWh drawn from grid
	CostSavings   float64   `json:"cost_savings"`   // currency
}

// Summary aggregates the metrics of a full schedule.
type Summary struct {
	TotalEnergy         float64 `json:"total_energy"`
	SolarEnergy         float64 `json:"solar_energy"`
	GridEnergy          float64 `json:"grid_energy"`
	SolarPercentage     float64 `json:"solar_percentage"`
	CostSavings         float64 `json:"cost_savings"`
	ScheduledAppliances int     `json:"scheduled_appliances"`
}
