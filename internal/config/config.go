// Package config loads docmapper settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joeshaw/envdecode"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds process settings. Defaults are provided via struct tags.
type Config struct {
	// LogLevel is one of debug, info, warn, error. ENV: DOCMAPPER_LOG_LEVEL
	LogLevel string `env:"DOCMAPPER_LOG_LEVEL,default=info"`

	// Store selects the rule store backend; memory keeps nothing between runs. ENV: DOCMAPPER_STORE
	Store string `env:"DOCMAPPER_STORE,default=sqlite"`
	// SQLitePath is the database file of the sqlite backend. ENV: DOCMAPPER_SQLITE_PATH
	SQLitePath string `env:"DOCMAPPER_SQLITE_PATH,default=docmapper.db"`
	// RedisAddr like "localhost:6379". ENV: DOCMAPPER_REDIS_ADDR
	RedisAddr string `env:"DOCMAPPER_REDIS_ADDR,default=127.0.0.1:6379"`
	// RedisDB is the database number. ENV: DOCMAPPER_REDIS_DB
	RedisDB int `env:"DOCMAPPER_REDIS_DB,default=0"`
	// RedisPrefix prefixes every key. ENV: DOCMAPPER_REDIS_PREFIX
	RedisPrefix string `env:"DOCMAPPER_REDIS_PREFIX,default=docmapper:"`

	// Concurrency bounds parallel document transforms. ENV: DOCMAPPER_CONCURRENCY
	Concurrency int `env:"DOCMAPPER_CONCURRENCY,default=4"`
	// Timezone of getCurrentDate, an IANA name. ENV: DOCMAPPER_TIMEZONE
	Timezone string `env:"DOCMAPPER_TIMEZONE,default=UTC"`
}

// Load decodes the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Store, validation.Required, validation.In(StoreMemory, StoreSQLite, StoreRedis)),
		validation.Field(&c.SQLitePath, validation.When(c.Store == StoreSQLite, validation.Required)),
		validation.Field(&c.RedisAddr, validation.When(c.Store == StoreRedis, validation.Required)),
		validation.Field(&c.RedisDB, validation.Min(0)),
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1)),
		validation.Field(&c.Timezone, validation.By(func(any) error {
			_, err := c.Location()
			return err
		})),
	)
}

// Location returns the time zone named by Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q", c.Timezone)
	}

	return loc, nil
}

// Clock returns a clock reading the wall time in the configured zone.
func (c Config) Clock() (func() time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	return func() time.Time { return time.Now().In(loc) }, nil
}
