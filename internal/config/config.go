package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName        = "six-cities"
	defaultAPIBaseURL     = "https://14.design.htmlacademy.pro/six-cities"
	defaultAPITimeout     = "5s"
	defaultStorageDSN     = "six-cities.db"
	defaultHTTPAddr       = ":3000"
	defaultLogLevel       = "debug"
	defaultLogColor       = "true"
	defaultFluentPort     = "24224"
	defaultMockAPIAddr    = ":8090"
	defaultMockAPIDSN     = "six-cities-mock.db"
	defaultMockJWTTTL     = "24h"
	defaultMockJWTSecret  = "change-me-mock-jwt-secret"
	defaultFluentLogLevel = "info"
)

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

type MockAPIConfig struct {
	Addr      string
	DSN       string
	JWTSecret string
	JWTTTL    time.Duration
	Seed      bool
}

// Config is everything the commands read from the environment.
type Config struct {
	AppEnv     string
	AppName    string
	APIBaseURL string
	APITimeout time.Duration
	StorageDSN string
	HTTPAddr   string
	LogLevel   string
	LogColor   bool
	FluentBit  FluentBitConfig
	MockAPI    MockAPIConfig
}

// Load reads an optional .env file (the first path given, or ./.env) and then
// the process environment. A missing .env file is not an error.
func Load(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.AppName = strings.TrimSpace(getEnv("APP_NAME", defaultAppName))
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("API_BASE_URL", defaultAPIBaseURL)), "/")
	cfg.StorageDSN = strings.TrimSpace(getEnv("STORAGE_DSN", defaultStorageDSN))
	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogColor = parseBoolEnv("LOG_COLOR", defaultLogColor)

	cfg.APITimeout, err = parseDurationEnv("API_TIMEOUT", defaultAPITimeout)
	if err != nil {
		return nil, err
	}

	cfg.FluentBit.Enabled = parseBoolEnv("FLUENTBIT_ENABLED", "false")
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = strings.TrimSpace(os.Getenv("FLUENTBIT_HOST"))
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port, err = parseIntEnv("FLUENTBIT_PORT", defaultFluentPort)
		if err != nil {
			return nil, err
		}
		cfg.FluentBit.Level = strings.ToLower(getEnv("FLUENTBIT_LOG_LEVEL", defaultFluentLogLevel))
	}

	cfg.MockAPI.Addr = strings.TrimSpace(getEnv("MOCKAPI_ADDR", defaultMockAPIAddr))
	cfg.MockAPI.DSN = strings.TrimSpace(getEnv("MOCKAPI_DSN", defaultMockAPIDSN))
	cfg.MockAPI.JWTSecret = strings.TrimSpace(getEnv("MOCKAPI_JWT_SECRET", defaultMockJWTSecret))
	cfg.MockAPI.Seed = parseBoolEnv("MOCKAPI_SEED", "true")
	cfg.MockAPI.JWTTTL, err = parseDurationEnv("MOCKAPI_JWT_TTL", defaultMockJWTTTL)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be > 0")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}
	if cfg.StorageDSN == "" {
		return fmt.Errorf("STORAGE_DSN must not be empty")
	}
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if cfg.MockAPI.JWTTTL <= 0 {
		return fmt.Errorf("MOCKAPI_JWT_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.MockAPI.JWTSecret, defaultMockJWTSecret) {
			return fmt.Errorf("in prod/release MOCKAPI_JWT_SECRET must be set and not default")
		}
		if u.Scheme != "https" {
			return fmt.Errorf("in prod/release API_BASE_URL must use https")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
