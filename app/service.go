package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/solhub/solarsched/api"
	"github.com/solhub/solarsched/config"
	"github.com/solhub/solarsched/core/events"
	coremetrics "github.com/solhub/solarsched/core/metrics"
	"github.com/solhub/solarsched/core/model"
	"github.com/solhub/solarsched/core/schedule"
	"github.com/solhub/solarsched/core/solar"
	"github.com/solhub/solarsched/infra/logger"
	"github.com/solhub/solarsched/infra/metrics"
	"github.com/solhub/solarsched/infra/mqtt"
	"github.com/solhub/solarsched/internal/eventbus"
	"github.com/solhub/solarsched/store"
	"github.com/solhub/solarsched/weather"
)

// Service orchestrates forecast retrieval, production estimation and
// appliance scheduling.
type Service struct {
	cfg        *config.Config
	calculator *solar.Calculator
	scheduler  *schedule.Scheduler
	source     weather.Source
	sink       coremetrics.MetricsSink
	publisher  *mqtt.PlanPublisher
	history    *store.Store
	bus        eventbus.EventBus
	log        logger.Logger

	mu     sync.RWMutex
	latest api.Plan
	hasRun bool
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	appliances, err := cfg.ApplianceModels()
	if err != nil {
		return nil, err
	}
	scheduler := schedule.NewScheduler(appliances)
	cfg.Scheduler.Apply(scheduler)

	var source weather.Source
	switch cfg.Weather.Mode {
	case "api":
		source = weather.NewClient(cfg.Weather)
	default:
		source = weather.NewGenerator()
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var publisher *mqtt.PlanPublisher
	if cfg.MQTT.Enabled {
		publisher, err = mqtt.NewPlanPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	history, err := store.New(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	return &Service{
		cfg:        cfg,
		calculator: solar.NewCalculator(cfg.Solar),
		scheduler:  scheduler,
		source:     source,
		sink:       sink,
		publisher:  publisher,
		history:    history,
		bus:        eventbus.New(),
		log:        logg,
	}, nil
}

// RunOnce executes a single optimization run and returns the resulting plan.
func (s *Service) RunOnce(ctx context.Context) (api.Plan, error) {
	runID := uuid.NewString()
	now := time.Now()

	forecast, err := s.source.Forecast(ctx, s.cfg.Solar.Location)
	if err != nil {
		return api.Plan{}, fmt.Errorf("forecast: %w", err)
	}
	s.bus.Publish(events.ForecastEvent{Samples: forecast, Source: s.cfg.Weather.Mode, Time: now})

	production := s.calculator.CalculateDailyProduction(forecast)
	categories := s.calculator.ProductionCategories(production)
	items := s.scheduler.OptimizeSchedule(production)
	summary := s.scheduler.Summary(items)
	recommendations := s.scheduler.RecommendDeferrals(items, production)

	if err := s.history.SaveForecast(runID, forecast); err != nil {
		s.log.Warnf("saving forecast: %v", err)
	}
	if err := s.history.SaveProduction(runID, production); err != nil {
		s.log.Warnf("saving production: %v", err)
	}

	planEvent := events.PlanEvent{
		RunID:           runID,
		Production:      production,
		Schedule:        items,
		Summary:         summary,
		Recommendations: recommendations,
		Requested:       len(s.scheduler.Appliances()),
		Time:            now,
	}
	s.bus.Publish(planEvent)

	if s.publisher != nil {
		if err := s.publisher.PublishPlan(planEvent); err != nil {
			s.log.Warnf("publishing plan: %v", err)
		}
		if err := s.publisher.PublishProduction(runID, categories); err != nil {
			s.log.Warnf("publishing production: %v", err)
		}
	}

	plan := api.Plan{
		RunID:           runID,
		GeneratedAt:     now,
		Production:      production,
		Categories:      categories,
		Schedule:        items,
		Summary:         summary,
		Recommendations: recommendations,
	}
	s.mu.Lock()
	s.latest = plan
	s.hasRun = true
	s.mu.Unlock()

	s.log.Infof("run %s: placed %d/%d appliances, %.1f%% solar",
		runID, summary.ScheduledAppliances, len(s.scheduler.Appliances()), summary.SolarPercentage)
	return plan, nil
}

// Latest returns the most recent plan, if any run has completed.
func (s *Service) Latest() (api.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.hasRun
}

// Run starts the service and blocks until the context is cancelled.
// It performs an immediate optimization run, then re-plans on the
// configured cron schedule.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	if s.cfg.HTTP.Enabled {
		srv := &http.Server{
			Addr:              s.cfg.HTTP.Addr,
			Handler:           api.NewRouter(s, s.cfg.HTTP),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.log.Errorf("http server: %v", err)
			}
		}()
	}

	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Errorf("initial run: %v", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Scheduler.CronSpec, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Errorf("scheduled run: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("cron spec %q: %w", s.cfg.Scheduler.CronSpec, err)
	}
	c.Start()
	defer c.Stop()

	<-ctx.Done()
	return nil
}

// Windows computes high-production time windows for the next forecast.
func (s *Service) Windows(ctx context.Context, minPower, durationHours float64) ([]model.TimeWindow, error) {
	forecast, err := s.source.Forecast(ctx, s.cfg.Solar.Location)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	production := s.calculator.CalculateDailyProduction(forecast)
	return s.calculator.OptimalTimeWindows(production, minPower, durationHours), nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	s.bus.Close()
	return s.history.Close()
}
