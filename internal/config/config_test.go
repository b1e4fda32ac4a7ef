package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromEnvWithDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("GFW_API_TOKEN", "token-test")

	cfg := LoadConfig()

	if cfg.GFWAPIToken != "token-test" {
		t.Fatalf("unexpected token: %q", cfg.GFWAPIToken)
	}
	if cfg.HomeFlag != "SEN" {
		t.Fatalf("unexpected home flag default: %q", cfg.HomeFlag)
	}
	if cfg.MinFishingHours != 200 || cfg.MaxEnginePowerKw != 3000 || cfg.MaxLengthMeters != 50 {
		t.Fatalf("unexpected threshold defaults: %+v", cfg)
	}
	if cfg.MaxForeignPortPct != 0.3 || cfg.MaxGapHours != 48 {
		t.Fatalf("unexpected threshold defaults: %+v", cfg)
	}
	if cfg.Workers != 10 || cfg.PageSize != 100 || cfg.MaxRetries != 3 {
		t.Fatalf("unexpected engine defaults: %+v", cfg)
	}
	if cfg.DBPath != "" {
		t.Fatalf("db sink must be disabled by default, got %q", cfg.DBPath)
	}
	if _, ok := cfg.OwnershipKeywords["spain"]; !ok {
		t.Fatalf("expected default ownership keywords, got %v", cfg.OwnershipKeywords)
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
gfw_api_token: "yaml-token"
home_flag: "gha"
analysis_year: 2023
min_fishing_hours: 120
workers: 4
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("WORKERS", "2")

	cfg := LoadConfig()

	if cfg.GFWAPIToken != "yaml-token" {
		t.Fatalf("unexpected token: %q", cfg.GFWAPIToken)
	}
	if cfg.HomeFlag != "GHA" {
		t.Fatalf("home flag must be upper-cased, got %q", cfg.HomeFlag)
	}
	if cfg.AnalysisYear != 2023 || cfg.MinFishingHours != 120 {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.Workers != 2 {
		t.Fatalf("env must override yaml, workers = %d", cfg.Workers)
	}
}

func TestWindow(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("GFW_API_TOKEN", "token-test")
	t.Setenv("ANALYSIS_YEAR", "2024")

	win := LoadConfig().Window()
	if win.Start.Year() != 2024 || win.Start.Month() != 1 || win.Start.Day() != 1 {
		t.Fatalf("window start = %v", win.Start)
	}
	if win.End.Year() != 2024 || win.End.Month() != 12 || win.End.Day() != 31 {
		t.Fatalf("window end = %v", win.End)
	}
}

func TestWindowExplicitDates(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
	t.Setenv("GFW_API_TOKEN", "token-test")
	t.Setenv("START_DATE", "2024-03-01")
	t.Setenv("END_DATE", "2024-06-30")

	win := LoadConfig().Window()
	if win.Start.Month() != 3 || win.End.Month() != 6 {
		t.Fatalf("window = %v .. %v", win.Start, win.End)
	}
}
