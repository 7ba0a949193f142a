package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/divinity/dspace.go/pkg/constants"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is everything needed to build a client.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	HTTP    HTTPConfig    `yaml:"http"`
	Cache   CacheConfig   `yaml:"cache"`
	Sources SourcesConfig `yaml:"sources"`
	Log     LogConfig     `yaml:"log"`
}

func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// APIConfig points at the server's REST root, e.g. https://repo.example.org/server.
type APIConfig struct {
	Root     string `yaml:"root"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

func (c *APIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required, is.URL),
		validation.Field(&c.Username, validation.Required),
	)
}

// RedisConfig addresses a Redis server.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

func (c *RedisConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DB, validation.Min(0)),
	)
}

// SessionConfig selects where tokens are kept between calls.
type SessionConfig struct {
	Store string        `yaml:"store"`
	Redis RedisConfig   `yaml:"redis"`
	TTL   time.Duration `yaml:"ttl"`
}

func (c *SessionConfig) Validate() error {
	if c.Store == "" {
		c.Store = StoreMemory
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Store, validation.In(StoreMemory, StoreRedis)),
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	if c.Store == StoreRedis {
		return c.Redis.Validate()
	}
	return nil
}

type HTTPConfig struct {
	ConnectTimeout    time.Duration `yaml:"connect_timeout"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ConnectTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
		validation.Field(&c.Burst, validation.Min(0)),
	)
}

// CacheConfig enables the GET response cache used for page iteration.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	// Redis is used when Addr is set, an in-process cache otherwise.
	Redis RedisConfig `yaml:"redis"`
}

func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
	)
}

// SourcesConfig enables fetchers for object storage file URIs.
type SourcesConfig struct {
	S3  *S3Config  `yaml:"s3"`
	GCS *GCSConfig `yaml:"gcs"`
}

type S3Config struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

type GCSConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path writes logs to a file instead of stderr.
	Path string `yaml:"path"`
}

func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error", "disabled")),
	)
}

// NewDefaultConfig returns a Config with the default timeouts and an
// in-memory session.
func NewDefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{Store: StoreMemory},
		HTTP: HTTPConfig{
			ConnectTimeout: constants.DefaultConnectTimeout,
			Timeout:        constants.DefaultHTTPTimeout,
		},
		Cache: CacheConfig{TTL: 5 * time.Minute},
		Log:   LogConfig{Level: "info"},
	}
}
