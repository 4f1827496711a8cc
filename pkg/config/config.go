package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendMock = "mock"
	BackendHTTP = "http"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Predictor PredictorConfig
	Session   SessionConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"Next Game Points Predictor"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	Environment string `envconfig:"APP_ENV" default:"development"`
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	AllowOrigins    []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
}

type PredictorConfig struct {
	Backend           string        `envconfig:"PREDICTOR_BACKEND" default:"mock"`
	URL               string        `envconfig:"PREDICTOR_URL"`
	BasicAuthUsername string        `envconfig:"PREDICTOR_BASIC_AUTH_USERNAME"`
	BasicAuthPassword string        `envconfig:"PREDICTOR_BASIC_AUTH_PASSWORD"`
	Timeout           time.Duration `envconfig:"PREDICTOR_TIMEOUT" default:"10s"`

	MinDelay        time.Duration `envconfig:"MOCK_MIN_DELAY" default:"2000ms"`
	MaxDelay        time.Duration `envconfig:"MOCK_MAX_DELAY" default:"3500ms"`
	FailureRate     float64       `envconfig:"MOCK_FAILURE_RATE" default:"0.1"`
	ConfidenceLevel int           `envconfig:"MOCK_CONFIDENCE_LEVEL" default:"80"`
	Seed            uint64        `envconfig:"MOCK_SEED" default:"0"`
}

type SessionConfig struct {
	Store          string        `envconfig:"SESSION_STORE" default:"memory"`
	TTL            time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	ToastTTL       time.Duration `envconfig:"TOAST_TTL" default:"5s"`
	CookieName     string        `envconfig:"SESSION_COOKIE_NAME" default:"npp_session"`
	GCInterval     time.Duration `envconfig:"SESSION_GC_INTERVAL" default:"1m"`
	RefreshSeconds int           `envconfig:"LOADING_REFRESH_SECONDS" default:"1"`
}

type RedisConfig struct {
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

type RateLimitConfig struct {
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Rate    float64 `envconfig:"RATE_LIMIT_RPS" default:"1"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"3"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Predictor.Backend {
	case BackendMock:
		if c.Predictor.MinDelay < 0 || c.Predictor.MaxDelay < c.Predictor.MinDelay {
			return errors.New("mock delay range is invalid")
		}
		if c.Predictor.FailureRate < 0 || c.Predictor.FailureRate > 1 {
			return errors.New("mock failure rate must be within [0, 1]")
		}
		if c.Predictor.ConfidenceLevel < 1 || c.Predictor.ConfidenceLevel > 100 {
			return errors.New("mock confidence level must be within [1, 100]")
		}
	case BackendHTTP:
		if c.Predictor.URL == "" {
			return errors.New("missing predictor url")
		}
	default:
		return fmt.Errorf("unknown predictor backend %q", c.Predictor.Backend)
	}

	if c.Predictor.Timeout <= 0 {
		return errors.New("predictor timeout must be positive")
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.RedisHost == "" {
			return errors.New("missing redis host")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	if c.Session.TTL <= 0 || c.Session.ToastTTL <= 0 {
		return errors.New("session and toast ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("missing session cookie name")
	}

	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst < 1) {
		return errors.New("rate limit needs a positive rate and burst")
	}

	return nil
}
