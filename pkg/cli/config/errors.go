package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidBackend   = goerr.New("invalid repository backend")
	ErrMissingFlag      = goerr.New("required flag is missing")
	ErrInvalidLogLevel  = goerr.New("invalid log level")
	ErrInvalidLogFormat = goerr.New("invalid log format")
	ErrInvalidDuration  = goerr.New("duration must be positive")
)

// Context keys for error values
const (
	BackendKey   = "backend"
	FlagKey      = "flag"
	LogLevelKey  = "log_level"
	LogFormatKey = "log_format"
	DurationKey  = "duration"
)
