package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.Env != "dev" || cfg.ObjectStoreType != "local" || cfg.SessionStore != "memory" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected 30m session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("unexpected max upload: %d", cfg.MaxUploadBytes)
	}
	if len(cfg.CORSAllowOrigin) != 1 || cfg.CORSAllowOrigin[0] != "http://localhost:5173" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowOrigin)
	}
	if cfg.WorkerConcurrency != 4 || cfg.WorkerVisibilitySeconds != 300 || cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("unexpected worker defaults: %+v", cfg)
	}
}

func TestWorkerSettingsFloor(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WORKER_CONCURRENCY", "0")
	t.Setenv("SQS_VISIBILITY_TIMEOUT_SECONDS", "5")

	cfg := Load()
	if cfg.WorkerConcurrency != 1 || cfg.WorkerVisibilitySeconds != 30 {
		t.Fatalf("expected floors to apply, got %d %d", cfg.WorkerConcurrency, cfg.WorkerVisibilitySeconds)
	}
}

func TestLoadEnvOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	dotenv := "PORT=9090\nSESSION_STORE=redis\nGAZETTEER_FILE=places.yaml\nSESSION_TTL=5m\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("CORS_ALLOW_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("UPLOADS_S3_PREFIX", "incoming")

	cfg := Load()
	if cfg.Port != "7070" {
		t.Fatalf("env must win over .env, got %q", cfg.Port)
	}
	if cfg.SessionStore != "redis" || cfg.GazetteerFile != "places.yaml" {
		t.Fatalf(".env values not applied: %+v", cfg)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %s", cfg.SessionTTL)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowOrigin)
	}
	if cfg.UploadsPrefix != "incoming/" {
		t.Fatalf("unexpected uploads prefix: %q", cfg.UploadsPrefix)
	}
}
