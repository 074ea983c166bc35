package pcre

import (
	"time"

	"github.com/coregx/coregex"
	"github.com/coregx/coregex/meta"

	"github.com/coregx/pcre/delim"
	"github.com/coregx/pcre/engine"
)

// Config controls a PCRE instance.
//
// Example:
//
//	config := pcre.DefaultConfig()
//	config.Delimiter = '~'
//	config.MatchTimeout = 100 * time.Millisecond
//	p, err := pcre.New(config)
type Config struct {
	// Backend selects the regex engine.
	// Default: engine.BackendAuto
	Backend engine.Backend

	// Delimiter encloses composed patterns.
	// Default: '#'
	Delimiter byte

	// CacheSize is the number of compiled patterns kept per instance.
	// Zero disables the cache.
	// Default: 4096
	CacheSize int

	// MatchTimeout bounds each backtracking (regexp2) search. When it
	// elapses the operation fails with a BacktrackLimit EngineError.
	// Zero means no bound.
	// Default: 0
	MatchTimeout time.Duration

	// Engine is passed to coregex.CompileWithConfig.
	// Default: coregex.DefaultConfig()
	Engine meta.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:   engine.BackendAuto,
		Delimiter: delim.Default,
		CacheSize: 4096,
		Engine:    coregex.DefaultConfig(),
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - Delimiter: one of delim.Delimiters
//   - CacheSize: 0 to 1,000,000
//   - MatchTimeout: >= 0
//   - Engine: see meta.Config.Validate
func (c Config) Validate() error {
	if c.Backend > engine.BackendLiteral {
		return &ConfigError{
			Field:   "Backend",
			Message: "unknown backend " + c.Backend.String(),
		}
	}

	if err := delim.Valid(c.Delimiter); err != nil {
		return &ConfigError{
			Field:   "Delimiter",
			Message: err.Error(),
		}
	}

	if c.CacheSize < 0 || c.CacheSize > 1_000_000 {
		return &ConfigError{
			Field:   "CacheSize",
			Message: "must be between 0 and 1,000,000",
		}
	}

	if c.MatchTimeout < 0 {
		return &ConfigError{
			Field:   "MatchTimeout",
			Message: "must not be negative",
		}
	}

	if err := c.Engine.Validate(); err != nil {
		return &ConfigError{
			Field:   "Engine",
			Message: err.Error(),
		}
	}

	return nil
}
