package schedule

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines scheduling parameters loaded from configuration.
type Config struct {
	BaseLoadKW      float64 `json:"base_load_kw" yaml:"base_load_kw"`
	ElectricityRate float64 `json:"electricity_rate" yaml:"electricity_rate"`
	SlotCapacityKW  float64 `json:"slot_capacity_kw" yaml:"slot_capacity_kw"`
	CronSpec        string  `json:"cron_spec" yaml:"cron_spec"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.BaseLoadKW == 0 {
		c.BaseLoadKW = DefaultBaseLoadKW
	}
	if c.ElectricityRate == 0 {
		c.ElectricityRate = DefaultElectricityRate
	}
	if c.SlotCapacityKW == 0 {
		c.SlotCapacityKW = DefaultSlotCapacityKW
	}
	if c.CronSpec == "" {
		c.CronSpec = "0 * * * *"
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.BaseLoadKW < 0 {
		return fmt.Errorf("base_load_kw must not be negative")
	}
	if c.ElectricityRate < 0 {
		return fmt.Errorf("electricity_rate must not be negative")
	}
	if c.SlotCapacityKW <= 0 {
		return fmt.Errorf("slot_capacity_kw must be positive")
	}
	return nil
}

// Apply copies the configured parameters onto the scheduler.
func (c Config) Apply(s *Scheduler) {
	s.BaseLoad = c.BaseLoadKW
	s.ElectricityRate = c.ElectricityRate
	s.SlotCapacityKW = c.SlotCapacityKW
}

// LoadConfig loads a Config from a JSON or YAML file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	return cfg, err
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	return cfg, nil
}
