package schedule

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(bytes.NewBufferString("base_load_kw: 1.5\nelectricity_rate: 0.2\nslot_capacity_kw: 8\n"), "yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.BaseLoadKW != 1.5 || cfg.ElectricityRate != 0.2 || cfg.SlotCapacityKW != 8 {
		t.Fatalf("bad cfg %#v", cfg)
	}
}

func TestDecodeConfigJSON(t *testing.T) {
	cfg, err := DecodeConfig(bytes.NewBufferString(`{"base_load_kw":3,"slot_capacity_kw":12}`), "json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if cfg.BaseLoadKW != 3 || cfg.SlotCapacityKW != 12 {
		t.Fatalf("bad cfg %#v", cfg)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	if _, err := DecodeConfig(bytes.NewBufferString("{}"), "toml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, err := DecodeConfig(bytes.NewBufferString(":"), "yaml"); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("base_load_kw: 2.5\nslot_capacity_kw: 10"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseLoadKW != 2.5 {
		t.Fatalf("bad cfg %#v", cfg)
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := filepath.Join(dir, "cfg.txt")
	if err := os.WriteFile(bad, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Fatalf("expected error for wrong extension")
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.BaseLoadKW != DefaultBaseLoadKW || cfg.ElectricityRate != DefaultElectricityRate || cfg.SlotCapacityKW != DefaultSlotCapacityKW {
		t.Fatalf("defaults not applied: %#v", cfg)
	}
	if cfg.CronSpec == "" {
		t.Fatalf("cron spec default missing")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.SlotCapacityKW = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
}

func TestConfigApply(t *testing.T) {
	s := NewScheduler(nil)
	cfg := Config{BaseLoadKW: 1, ElectricityRate: 0.3, SlotCapacityKW: 6}
	cfg.Apply(s)
	if s.BaseLoad != 1 || s.ElectricityRate != 0.3 || s.SlotCapacityKW != 6 {
		t.Fatalf("apply failed: %+v", s)
	}
}
