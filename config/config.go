package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/solhub/solarsched/api"
	"github.com/solhub/solarsched/core/metrics"
	"github.com/solhub/solarsched/core/model"
	"github.com/solhub/solarsched/core/schedule"
	"github.com/solhub/solarsched/core/solar"
	"github.com/solhub/solarsched/infra/mqtt"
	"github.com/solhub/solarsched/store"
	"github.com/solhub/solarsched/weather"
)

// ApplianceConfig declares one appliance to schedule.
type ApplianceConfig struct {
	Name        string  `json:"name"`
	PowerRating float64 `json:"power_rating"` // kW
	Duration    float64 `json:"duration"`     // hours
	Flexibility int     `json:"flexibility"`  // 1-10
	Priority    string  `json:"priority"`     // low, medium, high
}

// ToModel converts the declaration into a domain appliance.
func (a ApplianceConfig) ToModel() model.Appliance {
	return model.Appliance{
		Name:        a.Name,
		PowerRating: a.PowerRating,
		Duration:    a.Duration,
		Flexibility: a.Flexibility,
		Priority:    model.ParsePriority(a.Priority),
	}
}

type Config struct {
	Solar      solar.Config      `json:"solar"`
	Appliances []ApplianceConfig `json:"appliances"`
	Scheduler  schedule.Config   `json:"scheduler"`
	Weather    weather.Config    `json:"weather"`
	Store      store.Config      `json:"store"`
	HTTP       api.Config        `json:"http"`
	MQTT       mqtt.Config       `json:"mqtt"`
	Metrics    metrics.Config    `json:"metrics"`
}

// ApplianceModels returns the configured appliances as domain objects,
// rejecting invalid declarations.
func (c *Config) ApplianceModels() ([]model.Appliance, error) {
	out := make([]model.Appliance, 0, len(c.Appliances))
	for _, a := range c.Appliances {
		m := a.ToModel()
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("appliance %q: %w", a.Name, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Scheduler.SetDefaults()
	cfg.Weather.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.HTTP.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Solar.Validate(); err != nil {
		return nil, fmt.Errorf("solar: %w", err)
	}
	if err := cfg.Scheduler.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if err := cfg.Weather.Validate(); err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	if cfg.MQTT.Enabled {
		if err := cfg.MQTT.Validate(); err != nil {
			return nil, fmt.Errorf("mqtt: %w", err)
		}
	}
	if _, err := cfg.ApplianceModels(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
