package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/solhub/solarsched/core/metrics"
)

// PromSink records optimization runs in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	solarPct   prometheus.Gauge
	savings    prometheus.Counter
	peakKW     prometheus.Gauge
	production prometheus.Gauge
}

// NewPromSink registers plan metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_runs_total",
		Help: "Total number of optimization runs",
	}, []string{"outcome"})
	solarPct := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plan_solar_coverage_percent",
		Help: "Solar coverage of the latest schedule",
	})
	savings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plan_cost_savings_total",
		Help: "Accumulated estimated cost savings",
	})
	peak := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "production_peak_kw",
		Help: "Peak estimated PV output of the latest forecast",
	})
	total := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "production_total_kwh",
		Help: "Total estimated PV energy of the latest forecast",
	})

	collectors := []prometheus.Collector{runs, solarPct, savings, peak, total}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	runs = collectors[0].(*prometheus.CounterVec)
	solarPct = collectors[1].(prometheus.Gauge)
	savings = collectors[2].(prometheus.Counter)
	peak = collectors[3].(prometheus.Gauge)
	total = collectors[4].(prometheus.Gauge)

	return &PromSink{runs: runs, solarPct: solarPct, savings: savings, peakKW: peak, production: total}, nil
}

// RecordPlanResult updates the run counter and schedule gauges.
func (s *PromSink) RecordPlanResult(res coremetrics.PlanResult) error {
	outcome := "complete"
	if res.Placed < res.Requested {
		outcome = "partial"
	}
	s.runs.WithLabelValues(outcome).Inc()
	s.solarPct.Set(res.Summary.SolarPercentage)
	s.savings.Add(res.Summary.CostSavings)
	return nil
}

// RecordProduction sets the production gauges for the latest forecast.
func (s *PromSink) RecordProduction(ev coremetrics.ProductionEvent) error {
	s.peakKW.Set(ev.PeakKW)
	s.production.Set(ev.TotalKWh)
	return nil
}
