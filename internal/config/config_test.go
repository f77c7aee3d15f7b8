package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.StoreBackend != "file" {
		t.Errorf("expected default backend file, got %q", cfg.StoreBackend)
	}
	if cfg.TasksFile != "tasks.json" {
		t.Errorf("expected default tasks file, got %q", cfg.TasksFile)
	}
	if cfg.RateLimitRPS != 0 {
		t.Errorf("expected rate limiting off by default, got %v", cfg.RateLimitRPS)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("expected port override, got %q", cfg.Port)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("expected backend override, got %q", cfg.StoreBackend)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("expected rps override, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 7 {
		t.Errorf("expected burst override, got %d", cfg.RateLimitBurst)
	}
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("RATE_LIMIT_BURST", "also-not")

	cfg := Load()
	if cfg.RateLimitRPS != 0 {
		t.Errorf("expected default rps on parse failure, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 10 {
		t.Errorf("expected default burst on parse failure, got %d", cfg.RateLimitBurst)
	}
}
