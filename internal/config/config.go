package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "https://cozyhotel.runasp.net/api"

// Config holds client configuration
type Config struct {
	Env         string
	LogLevel    string
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Storage backs the credential store, session values and the offline
	// booking cache. Backend is one of memory, sqlite or redis.
	StoreBackend  string
	StorePath     string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	// Card confirmation
	StripePublishableKey string
	StripeBaseURL        string

	DemoMode bool
	ChatMode string

	// Navigation targets handed to the navigator on redirects.
	LoginPath string
	HomePath  string

	// Portal
	PortalPort         string
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		APIBaseURL:           strings.TrimRight(getEnv("HOTEL_API_BASE_URL", defaultBaseURL), "/"),
		HTTPTimeout:          getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		StoreBackend:         strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "sqlite"))),
		StorePath:            getEnv("STORE_PATH", defaultStorePath()),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		SessionTTL:           getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		StripeBaseURL:        getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
		DemoMode:             getEnvAsBool("DEMO_MODE", false),
		ChatMode:             strings.ToLower(strings.TrimSpace(getEnv("CHAT_MODE", "server"))),
		LoginPath:            getEnv("LOGIN_PATH", "login.html"),
		HomePath:             getEnv("HOME_PATH", "index.html"),
		PortalPort:           getEnv("PORTAL_PORT", "8080"),
		CORSAllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS"),
	}
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".cozyhotel", "state.db")
	}
	return filepath.Join(home, ".cozyhotel", "state.db")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
