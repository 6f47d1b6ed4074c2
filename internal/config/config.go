// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings.
// Without any of the switches only warnings and errors are logged, so that
// log lines do not interleave with the program output.
func CreateLogger(debug, verbose, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	case verbose:
		cfg.Level = log.InfoLevel
	default:
		cfg.Level = log.WarnLevel
	}
	return log.NewWithConfig(cfg)
}
