package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/catalog")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %s, want 8080", cfg.Port)
	}
	if cfg.ReadTimeoutSecs != 15 || cfg.WriteTimeoutSecs != 15 || cfg.IdleTimeoutSecs != 60 {
		t.Fatalf("unexpected timeout defaults: %+v", cfg)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 2 {
		t.Fatalf("unexpected pool defaults: %+v", cfg)
	}
	if cfg.DBStatementCache != 256 {
		t.Fatalf("statement cache default = %d", cfg.DBStatementCache)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("DB_MIN_CONNS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port override not applied: %s", cfg.Port)
	}
	if cfg.DBMaxConns != 50 || cfg.DBMinConns != 5 {
		t.Fatalf("pool overrides not applied: %+v", cfg)
	}
}

func TestLoadMissingDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing DB_URL")
	}
}

func TestLoadInvalidPoolBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when min exceeds max")
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ReadTimeoutSecs != 15 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.ReadTimeoutSecs)
	}
}
