package shardqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Config groups all tunables. Values are taken from environment variables
// with the prefix "ANNOTATOR_QUEUE_", e.g. ANNOTATOR_QUEUE_SHARDS=8.
type Config struct {
	Shards         int           `envconfig:"SHARDS"          default:"4"`
	QueueSize      int           `envconfig:"QUEUE_SIZE"      default:"64"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"250ms"`

	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"5"`
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF" default:"100ms"`
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL" default:"5s"`

	// Retryable decides whether a failed attempt is tried again.
	// nil retries every error.
	Retryable func(error) bool `envconfig:"-"`

	// OnResult is called from the worker once per job with the job's key and
	// its final error (nil on success). Panics are recovered.
	OnResult func(key string, err error) `envconfig:"-"`

	Logger zerolog.Logger `envconfig:"-"`
}

// LoadConfig populates Config from environment variables.
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("ANNOTATOR_QUEUE", &c)
}

func (c Config) withDefaults() Config {
	if c.Shards <= 0 {
		c.Shards = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.EnqueueTimeout <= 0 {
		c.EnqueueTimeout = 250 * time.Millisecond
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 100 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 5 * time.Second
	}
	return c
}
