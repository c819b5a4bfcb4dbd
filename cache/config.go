package cache

import (
	"crypto/tls"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Mode = string

const (
	ModeSingle   Mode = "single"
	ModeSentinel Mode = "sentinel"
	ModeCluster  Mode = "cluster"
)

const (
	DefaultKeyPrefix = "vat:vies:"
	DefaultTTL       = 24 * time.Hour
)

type Config struct {
	Mode         string
	Addr         string
	Addrs        []string
	MasterName   string
	DB           int
	Username     string
	Password     string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	TLSEnabled   bool

	// KeyPrefix namespaces VIES results; TTL is how long one is trusted.
	KeyPrefix string
	TTL       time.Duration
}

var (
	errAddressRequired      = errors.New("cache: address is required")
	errUnsupportedMode      = errors.New("cache: unsupported mode")
	errMasterNameRequired   = errors.New("cache: master name is required for sentinel mode")
	errMasterNameUnexpected = errors.New("cache: master name is only valid for sentinel mode")
	errSingleModeAddrCount  = errors.New("cache: single mode requires exactly one address")
	errClusterModeAddrCount = errors.New("cache: cluster mode requires at least two addresses")
	errClusterDBUnsupported = errors.New("cache: db must be 0 in cluster mode")
	errInvalidDB            = errors.New("cache: db must be >= 0")
)

func (c Config) keyPrefix() string {
	if c.KeyPrefix == "" {
		return DefaultKeyPrefix
	}
	return c.KeyPrefix
}

func (c Config) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

func normalizeMode(v string) Mode {
	mode := strings.ToLower(strings.TrimSpace(v))
	if mode == "" {
		return ModeSingle
	}
	return Mode(mode)
}

// normalizeAddrs prefers Addrs and falls back to Addr.
func normalizeAddrs(cfg Config) []string {
	out := make([]string, 0, len(cfg.Addrs)+1)
	for _, a := range cfg.Addrs {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		if a := strings.TrimSpace(cfg.Addr); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// options validates c and turns it into go-redis options.
func (c Config) options() (*redis.UniversalOptions, error) {
	mode := normalizeMode(c.Mode)
	addrs := normalizeAddrs(c)
	if err := validateConfig(c, mode, addrs); err != nil {
		return nil, err
	}

	opt := &redis.UniversalOptions{
		Addrs:        addrs,
		MasterName:   strings.TrimSpace(c.MasterName),
		DB:           c.DB,
		Username:     c.Username,
		Password:     c.Password,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
	if c.TLSEnabled {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt, nil
}

func validateConfig(cfg Config, mode Mode, addrs []string) error {
	if cfg.DB < 0 {
		return errInvalidDB
	}
	if len(addrs) == 0 {
		return errAddressRequired
	}
	master := strings.TrimSpace(cfg.MasterName)

	switch mode {
	case ModeSingle:
		if len(addrs) != 1 {
			return errSingleModeAddrCount
		}
		if master != "" {
			return errMasterNameUnexpected
		}
	case ModeCluster:
		if len(addrs) < 2 {
			return errClusterModeAddrCount
		}
		if master != "" {
			return errMasterNameUnexpected
		}
		if cfg.DB != 0 {
			return errClusterDBUnsupported
		}
	case ModeSentinel:
		if master == "" {
			return errMasterNameRequired
		}
	default:
		return errUnsupportedMode
	}
	return nil
}
