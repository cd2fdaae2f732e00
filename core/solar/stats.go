package solar

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/solhub/solarsched/core/model"
)

// ProductionStats aggregates a production schedule for reporting.
type ProductionStats struct {
	TotalKWh float64 `json:"total_kwh"`
	PeakKW   float64 `json:"peak_kw"`
	MeanKW   float64 `json:"mean_kw"`
}

// Stats computes aggregate figures over the schedule. Points are assumed to be
// hourly, so the sum of outputs doubles as the energy total in kWh.
func Stats(schedule []model.ProductionPoint) ProductionStats {
	if len(schedule) == 0 {
		return ProductionStats{}
	}
	outputs := make([]float64, len(schedule))
	for i, p := range schedule {
		outputs[i] = p.OutputKW
	}
	return ProductionStats{
		TotalKWh: floats.Sum(outputs),
		PeakKW:   floats.Max(outputs),
		MeanKW:   stat.Mean(outputs, nil),
	}
}
