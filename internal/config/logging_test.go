package config

import "testing"

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "info" {
		t.Fatalf("Level = %q, want info", cfg.Level)
	}
}

func TestLoadLogParse(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if cfg.Level != "debug" {
		t.Fatalf("unexpected log config: %+v", cfg)
	}
}

func TestLoadRefreshDefaults(t *testing.T) {
	cfg, err := LoadRefresh()
	if err != nil {
		t.Fatalf("LoadRefresh() error = %v", err)
	}
	if cfg.RefreshCronSpec != "0 0 * * * *" {
		t.Fatalf("RefreshCronSpec = %q", cfg.RefreshCronSpec)
	}
	if cfg.MaxParallelism != 4 {
		t.Fatalf("MaxParallelism = %d, want 4", cfg.MaxParallelism)
	}
	if !cfg.CronEnabled {
		t.Fatal("CronEnabled = false, want true")
	}
}
