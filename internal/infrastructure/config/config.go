package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/inkpost/blog-api/internal/core/domain"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Sweeper   SweeperConfig
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	Issuer             string        `env:"TOKEN_ISSUER,      default=blog-api"`
	BcryptCost         int           `env:"BCRYPT_COST,       default=10"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=blog_api"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED,  default=true"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type RateLimitConfig struct {
	Requests     int           `env:"RATE_LIMIT_REQUESTS,      default=100"`
	Window       time.Duration `env:"RATE_LIMIT_WINDOW,        default=15m"`
	AuthRequests int           `env:"AUTH_RATE_LIMIT_REQUESTS, default=105"`
	AuthWindow   time.Duration `env:"AUTH_RATE_LIMIT_WINDOW,   default=1h"`
}

type SweeperConfig struct {
	Interval         time.Duration `env:"TOKEN_SWEEP_INTERVAL,    default=1h"`
	RevokedRetention time.Duration `env:"REVOKED_TOKEN_RETENTION, default=24h"`
}

// IsDevelopment reports whether human-friendly logging should be enabled.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from the process environment using go-envconfig
// and validates it.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit lookuper, used by tests.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on settings the server cannot run without. The two
// token secrets must be present and distinct so an access token can never
// pass refresh verification.
func (c *Config) Validate() error {
	switch {
	case c.Auth.JWTSecret == "":
		return &domain.ConfigError{Field: "JWT_SECRET", Reason: "is required"}
	case c.Auth.RefreshTokenSecret == "":
		return &domain.ConfigError{Field: "REFRESH_TOKEN_SECRET", Reason: "is required"}
	case c.Auth.JWTSecret == c.Auth.RefreshTokenSecret:
		return &domain.ConfigError{Field: "REFRESH_TOKEN_SECRET", Reason: "must differ from JWT_SECRET"}
	case c.Auth.AccessTokenTTL <= 0:
		return &domain.ConfigError{Field: "ACCESS_TOKEN_TTL", Reason: "must be positive"}
	case c.Auth.RefreshTokenTTL <= 0:
		return &domain.ConfigError{Field: "REFRESH_TOKEN_TTL", Reason: "must be positive"}
	}

	switch c.StoreDriver {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return &domain.ConfigError{Field: "MONGO_URI", Reason: "is required for the mongo store"}
		}
	case StoreMemory:
	default:
		return &domain.ConfigError{Field: "STORE_DRIVER", Reason: fmt.Sprintf("unknown driver %q", c.StoreDriver)}
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.AuthRequests <= 0 {
		return &domain.ConfigError{Field: "RATE_LIMIT_REQUESTS", Reason: "must be positive"}
	}
	return nil
}
