package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the settings shared by both hosts.
type Config struct {
	HTTPAddr         string `validate:"required"`
	LogLevel         string `validate:"required,oneof=trace debug info warn error"`
	LogFormat        string `validate:"required,oneof=json console"`
	DBDriver         string `validate:"required,oneof=memory sqlite postgres"`
	DBDSN            string `validate:"required_if=DBDriver postgres"`
	SQLitePath       string `validate:"required_if=DBDriver sqlite"`
	MigrationsDir    string
	CatalogPath      string        `validate:"required"`
	TickPeriod       time.Duration `validate:"gt=0"`
	SessionCacheSize int           `validate:"gt=0"`
	UserFile         string        `validate:"required"`
}

// Option changes a default for one host; explicit env vars still win.
type Option func(*defaults)

type defaults struct {
	driver string
}

// WithDefaultDriver sets the storage driver used when DB_DRIVER is unset.
func WithDefaultDriver(driver string) Option {
	return func(d *defaults) { d.driver = driver }
}

// Load reads .env when present, then the environment, then validates.
func Load(opts ...Option) (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv, opts...)
}

// FromEnv builds the config from a lookup function. Unset variables take
// their defaults.
func FromEnv(lookup func(string) (string, bool), opts ...Option) (*Config, error) {
	def := defaults{driver: DriverMemory}
	for _, opt := range opts {
		opt(&def)
	}
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		HTTPAddr:      get("HTTP_ADDR", ":8080"),
		LogLevel:      strings.ToLower(get("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(get("LOG_FORMAT", "json")),
		DBDriver:      strings.ToLower(get("DB_DRIVER", def.driver)),
		DBDSN:         get("DB_DSN", ""),
		SQLitePath:    get("SQLITE_PATH", "data/tilefarm.db"),
		MigrationsDir: get("MIGRATIONS_DIR", ""),
		CatalogPath:   get("CATALOG_PATH", "assets/crops.json"),
		UserFile:      get("USER_FILE", "data/user.json"),
	}

	tick, err := time.ParseDuration(get("TICK_PERIOD", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TICK_PERIOD value: %w", err)
	}
	cfg.TickPeriod = tick

	size, err := strconv.Atoi(get("SESSION_CACHE_SIZE", "256"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_CACHE_SIZE value: %w", err)
	}
	cfg.SessionCacheSize = size

	if err := validate.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	return cfg, nil
}

var validate = validator.New()

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required", "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
