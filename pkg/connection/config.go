package connection

import (
	"time"

	"github.com/divinity/dspace.go/internal/codec"
	"github.com/divinity/dspace.go/pkg/constants"
	"github.com/divinity/dspace.go/pkg/logger"
)

// Config holds what an Exchanger engine needs beyond the request itself.
type Config struct {
	Marshaler      codec.Marshaler
	ConnectTimeout time.Duration
	Timeout        time.Duration
	// RequestsPerSecond limits outgoing exchanges. Zero disables the limit.
	RequestsPerSecond float64
	Burst             int
	Logger            logger.Logger
}

// NewConfig returns the default timeouts with the JSON codec and a silent logger.
func NewConfig() *Config {
	return &Config{
		Marshaler:      codec.NewJSON(),
		ConnectTimeout: constants.DefaultConnectTimeout,
		Timeout:        constants.DefaultHTTPTimeout,
		Logger:         logger.Nop(),
	}
}
