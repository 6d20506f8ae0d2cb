package cleanup

import (
	"time"

	"github.com/Faseeh100/orphancare-web/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval  time.Duration
	VerboseReporting bool
	ViewIdleTTL      time.Duration
}

// NewConfig creates a new cleanup configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.JanitorInterval,
		VerboseReporting: config.JanitorVerbose,
		ViewIdleTTL:      config.FetchViewIdleTTL,
	}
}
