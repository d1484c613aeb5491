package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if got, want := cfg.Optimizer.Tuning(), optimizer.DefaultTuning(); got != want {
		t.Errorf("tuning %+v, want %+v", got, want)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escala.yaml")
	body := "log:\n  level: debug\n  format: console\noptimizer:\n  patience: 7\n  repair_top_slots: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ESCALA_OPTIMIZER_PATIENCE", "9")
	t.Setenv("ESCALA_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("log section %+v", cfg.Log)
	}
	if cfg.Optimizer.Patience != 9 {
		t.Errorf("env should override file: patience=%d", cfg.Optimizer.Patience)
	}
	if cfg.Optimizer.RepairTopSlots != 2 {
		t.Errorf("repair_top_slots=%d", cfg.Optimizer.RepairTopSlots)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr=%q", cfg.Server.Addr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit file")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		d := optimizer.DefaultTuning()
		return Config{
			Server: ServerConfig{Addr: ":8080", MaxBodyBytes: 1 << 20},
			Log:    LogConfig{Level: "info", Format: "json"},
			Optimizer: OptimizerConfig{
				AlphaNormal: d.AlphaNormal, HotspotMultiplier: d.HotspotMultiplier,
				RepairMultiplier: d.RepairMultiplier, RepairTopSlots: d.RepairTopSlots,
				Patience: d.Patience, TieEpsilon: d.TieEpsilon,
			},
		}
	}
	ok := base()
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(*Config){
		"alpha":    func(c *Config) { c.Optimizer.AlphaNormal = 0 },
		"patience": func(c *Config) { c.Optimizer.Patience = -1 },
		"epsilon":  func(c *Config) { c.Optimizer.TieEpsilon = 0 },
		"addr":     func(c *Config) { c.Server.Addr = "" },
		"body":     func(c *Config) { c.Server.MaxBodyBytes = 0 },
		"format":   func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		c := base()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
