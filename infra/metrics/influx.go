package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/solhub/solarsched/core/metrics"
	"github.com/solhub/solarsched/infra/logger"
)

// InfluxSink writes optimization runs to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlanResult writes the run summary as a single point.
func (s *InfluxSink) RecordPlanResult(res coremetrics.PlanResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_run").
		AddTag("run_id", res.RunID).
		AddTag("component", "optimizer").
		AddField("total_energy_kwh", round3(res.Summary.TotalEnergy)).
		AddField("solar_energy_kwh", round3(res.Summary.SolarEnergy)).
		AddField("grid_energy_kwh", round3(res.Summary.GridEnergy)).
		AddField("solar_percentage", round3(res.Summary.SolarPercentage)).
		AddField("cost_savings", round3(res.Summary.CostSavings)).
		AddField("requested", res.Requested).
		AddField("placed", res.Placed).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordProduction writes one point per production estimate.
func (s *InfluxSink) RecordProduction(ev coremetrics.ProductionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, point := range ev.Schedule {
		p := write.NewPointWithMeasurement("pv_production").
			AddTag("run_id", ev.RunID).
			AddField("output_kw", round3(point.OutputKW)).
			SetTime(point.Timestamp)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordScheduleItem writes one placement.
func (s *InfluxSink) RecordScheduleItem(ev coremetrics.ScheduleItemEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("appliance_placement").
		AddTag("run_id", ev.RunID).
		AddTag("appliance", ev.Item.Appliance.Name).
		AddTag("priority", ev.Item.Appliance.Priority.String()).
		AddField("solar_coverage", round3(ev.Item.SolarCoverage)).
		AddField("grid_usage_kwh", round3(ev.Item.GridUsage)).
		AddField("cost_savings", round3(ev.Item.CostSavings)).
		SetTime(ev.Item.StartTime)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
