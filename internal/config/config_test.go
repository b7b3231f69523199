package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "HOTEL_API_BASE_URL", "HTTP_TIMEOUT", "STORE_BACKEND", "DEMO_MODE", "CHAT_MODE", "CORS_ALLOWED_ORIGINS", "LOGIN_PATH"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.APIBaseURL != "https://cozyhotel.runasp.net/api" {
		t.Fatalf("expected default base URL, got %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Fatalf("expected sqlite backend by default, got %s", cfg.StoreBackend)
	}
	if cfg.DemoMode {
		t.Fatalf("expected demo mode disabled by default")
	}
	if cfg.ChatMode != "server" {
		t.Fatalf("expected server chat mode, got %s", cfg.ChatMode)
	}
	if cfg.LoginPath != "login.html" {
		t.Fatalf("expected login.html, got %s", cfg.LoginPath)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HOTEL_API_BASE_URL", "http://localhost:5000/api/")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("STORE_BACKEND", " Redis ")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("DEMO_MODE", "1")
	t.Setenv("CHAT_MODE", "LOCAL")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	cfg := Load()
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.HTTPTimeout)
	}
	if cfg.StoreBackend != "redis" {
		t.Fatalf("expected redis backend, got %q", cfg.StoreBackend)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis TLS enabled")
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if !cfg.DemoMode {
		t.Fatalf("expected demo mode enabled")
	}
	if cfg.ChatMode != "local" {
		t.Fatalf("expected local chat mode, got %s", cfg.ChatMode)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("DEMO_MODE", "maybe")
	cfg := Load()
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.DemoMode {
		t.Fatalf("expected demo mode default")
	}
	if got := getEnvAsInt("HTTP_TIMEOUT", 7); got != 7 {
		t.Fatalf("getEnvAsInt fallback = %d, want 7", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("COZYHOTEL_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COZYHOTEL_TEST_KEY", "")
	os.Unsetenv("COZYHOTEL_TEST_KEY")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("COZYHOTEL_TEST_KEY"); got != "from-file" {
		t.Fatalf("COZYHOTEL_TEST_KEY = %q, want from-file", got)
	}
}
