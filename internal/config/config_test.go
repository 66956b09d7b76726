package config

import (
	"os"
	"path/filepath"
	"testing"
)

// unset clears key for the test and restores it afterwards.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	unset(t, "APP_ENV", "PORT", "STORE_BACKEND", "DB_DRIVER", "DB_PATH", "APPROVAL_THRESHOLD", "QUOTE_VALIDITY_DAYS")

	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.Port != "8080" || cfg.StoreBackend != StoreSQL || cfg.DBDriver != "sqlite" || cfg.DBPath != "./dev.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ApprovalThreshold.String() != "10000" || cfg.QuoteValidityDays != 30 {
		t.Fatalf("unexpected quote defaults: %s, %d", cfg.ApprovalThreshold, cfg.QuoteValidityDays)
	}
	if !cfg.IsDev() {
		t.Fatalf("default environment should be development")
	}
}

func TestLoadFrom_ReadsDotEnvAndIgnoresNoise(t *testing.T) {
	unset(t, "PORT", "STORE_BACKEND", "APPROVAL_THRESHOLD", "REDIS_DB")

	path := writeEnv(t, `
# comment

PORT=9090
export STORE_BACKEND=redis
APPROVAL_THRESHOLD="2500.50"
REDIS_DB='3'
`)
	cfg := LoadFrom(path)

	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want 9090", cfg.Port)
	}
	if cfg.StoreBackend != StoreRedis {
		t.Fatalf("StoreBackend=%q, want redis", cfg.StoreBackend)
	}
	if cfg.ApprovalThreshold.String() != "2500.5" {
		t.Fatalf("ApprovalThreshold=%s, want 2500.5", cfg.ApprovalThreshold)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("RedisDB=%d, want 3", cfg.RedisDB)
	}
}

func TestLoadFrom_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("PORT", "7000")

	cfg := LoadFrom(writeEnv(t, "PORT=9090\n"))
	if cfg.Port != "7000" {
		t.Fatalf("Port=%q, want 7000", cfg.Port)
	}
}

func TestLoadFrom_FallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("APPROVAL_THRESHOLD", "lots")
	t.Setenv("QUOTE_VALIDITY_DAYS", "-4")
	t.Setenv("STORE_BACKEND", "cassandra")

	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	if cfg.ApprovalThreshold.String() != "10000" || cfg.QuoteValidityDays != 30 || cfg.StoreBackend != StoreSQL {
		t.Fatalf("expected fallbacks, got %+v", cfg)
	}
}

func TestIsDev(t *testing.T) {
	cases := map[string]bool{
		"":            true,
		"development": true,
		"DEV":         true,
		"local":       true,
		"production":  false,
		"staging":     false,
	}
	for env, want := range cases {
		if got := (Config{Env: env}).IsDev(); got != want {
			t.Fatalf("IsDev(%q)=%v, want %v", env, got, want)
		}
	}
}
