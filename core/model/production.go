package model

import "time"

// ProductionPoint is the estimated PV output at a single timestamp.
type ProductionPoint struct {
	Timestamp time.Time `json:"timestamp"`
	OutputKW  float64   `json:"output_kw"`
}

// ProductionCategory buckets a production level relative to nameplate capacity.
type ProductionCategory int

const (
	CategoryRed ProductionCategory = iota
	CategoryYellow
	CategoryGreen
)

// String returns a human-readable representation of the category.
func (c ProductionCategory) String() string {
	switch c {
	case CategoryGreen:
		return "green"
	case CategoryYellow:
		return "yellow"
	case CategoryRed:
		return "red"
	default:
		return "unknown"
	}
}

// CategorizedPoint pairs a timestamp with its production category.
type CategorizedPoint struct {
	Timestamp time.Time          `json:"timestamp"`
	Category  ProductionCategory `json:"category"`
}

// ExcessPoint is the production beyond base load at a single timestamp,
// available for battery charging or deferred loads.
type ExcessPoint struct {
	Timestamp time.Time `json:"timestamp"`
	ExcessKW  float64   `json:"excess_kw"`
}

// TimeWindow is a contiguous period of the production schedule.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
