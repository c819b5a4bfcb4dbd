// Package config loads the vatd settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vortex-fintech/go-vat/cache"
	"github.com/vortex-fintech/go-vat/history"
	"github.com/vortex-fintech/go-vat/retry"
	"github.com/vortex-fintech/go-vat/validator"
	"github.com/vortex-fintech/go-vat/vies"
)

var (
	ErrParsingConfig = errors.New("config: failed to parse environment")
	ErrInvalidConfig = errors.New("config: invalid values")
)

type Config struct {
	ServiceName     string        `env:"VAT_SERVICE_NAME" envDefault:"vatd" validate:"required"`
	Env             string        `env:"VAT_ENV" envDefault:"production" validate:"oneof=development debug production"`
	LogLevel        string        `env:"VAT_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `env:"VAT_SHUTDOWN_TIMEOUT" envDefault:"15s" validate:"gt=0"`

	HTTP     HTTP     `envPrefix:"VAT_HTTP_"`
	Metrics  Metrics  `envPrefix:"VAT_METRICS_"`
	VIES     VIES     `envPrefix:"VAT_VIES_"`
	Redis    Redis    `envPrefix:"VAT_REDIS_"`
	Postgres Postgres `envPrefix:"VAT_POSTGRES_"`
}

type HTTP struct {
	Addr         string        `env:"ADDR" envDefault:":8080" validate:"required,hostname_port"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	// MaxBodyBytes caps request bodies of the JSON API.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"65536" validate:"gt=0"`
}

type Metrics struct {
	Addr      string `env:"ADDR" envDefault:":9090" validate:"required,hostname_port"`
	Namespace string `env:"NAMESPACE" envDefault:"vat"`
}

type VIES struct {
	Enabled     bool          `env:"ENABLED" envDefault:"true"`
	Endpoint    string        `env:"ENDPOINT" envDefault:"https://ec.europa.eu/taxation_customs/vies/services/checkVatService" validate:"required,http_url"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s"`
	MaxAttempts uint          `env:"MAX_ATTEMPTS" envDefault:"3" validate:"gte=1,lte=10"`
	MaxElapsed  time.Duration `env:"MAX_ELAPSED" envDefault:"30s"`
}

type Redis struct {
	Enabled    bool          `env:"ENABLED"`
	Mode       string        `env:"MODE" envDefault:"single" validate:"oneof=single sentinel cluster"`
	Addrs      []string      `env:"ADDRS" envSeparator:"," validate:"required_if=Enabled true"`
	MasterName string        `env:"MASTER_NAME"`
	DB         int           `env:"DB" validate:"gte=0"`
	Username   string        `env:"USERNAME"`
	Password   string        `env:"PASSWORD"`
	TLSEnabled bool          `env:"TLS"`
	KeyPrefix  string        `env:"KEY_PREFIX" envDefault:"vat:vies:"`
	TTL        time.Duration `env:"TTL" envDefault:"24h"`
}

type Postgres struct {
	// History is recorded only when URL is set.
	URL          string `env:"URL"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"10" validate:"gte=0"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS" envDefault:"2" validate:"gte=0"`
	Migrate      bool   `env:"MIGRATE" envDefault:"true"`
}

// Load reads files into the process environment (a missing default .env is
// fine, a missing named file is not), then parses and validates Config.
// Variables already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("config: load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := validator.Check(cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}

func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

func (c Config) VIESConfig() vies.Config {
	return vies.Config{
		Endpoint: c.VIES.Endpoint,
		Timeout:  c.VIES.Timeout,
		Retry: retry.Policy{
			MaxAttempts: c.VIES.MaxAttempts,
			MaxElapsed:  c.VIES.MaxElapsed,
		},
	}
}

func (c Config) CacheConfig() cache.Config {
	return cache.Config{
		Mode:       c.Redis.Mode,
		Addrs:      c.Redis.Addrs,
		MasterName: c.Redis.MasterName,
		DB:         c.Redis.DB,
		Username:   c.Redis.Username,
		Password:   c.Redis.Password,
		TLSEnabled: c.Redis.TLSEnabled,
		KeyPrefix:  c.Redis.KeyPrefix,
		TTL:        c.Redis.TTL,
	}
}

func (c Config) HistoryConfig() history.Config {
	return history.Config{
		URL:             c.Postgres.URL,
		ApplicationName: c.ServiceName,
		MaxOpenConns:    c.Postgres.MaxOpenConns,
		MaxIdleConns:    c.Postgres.MaxIdleConns,
	}
}
