package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/coregx/pcre"
	"github.com/coregx/pcre/engine"
)

// Settings is the CLI configuration. Values are read from pcre.yaml, then
// PCRE_* environment variables, then command line flags, each overriding
// the previous.
type Settings struct {
	Backend      string        `mapstructure:"backend"`
	Delimiter    string        `mapstructure:"delimiter"`
	CacheSize    int           `mapstructure:"cache_size"`
	MatchTimeout time.Duration `mapstructure:"match_timeout"`
	LogLevel     string        `mapstructure:"log_level"`
	Listen       string        `mapstructure:"listen"`
	ConfigFile   string        `mapstructure:"config_file"`
}

func defaultSettings() *Settings {
	config := pcre.DefaultConfig()
	return &Settings{
		Backend:      config.Backend.String(),
		Delimiter:    string(config.Delimiter),
		CacheSize:    config.CacheSize,
		MatchTimeout: config.MatchTimeout,
		LogLevel:     "warn",
		Listen:       ":7780",
	}
}

// flagKeys maps global flag names to configuration keys.
var flagKeys = map[string]string{
	"backend":       "backend",
	"delimiter":     "delimiter",
	"cache-size":    "cache_size",
	"match-timeout": "match_timeout",
	"log-level":     "log_level",
}

// loadSettings reads the configuration for the invocation c.
func loadSettings(c *cli.Context) (*Settings, error) {
	s := defaultSettings()

	v := viper.New()
	v.SetDefault("backend", s.Backend)
	v.SetDefault("delimiter", s.Delimiter)
	v.SetDefault("cache_size", s.CacheSize)
	v.SetDefault("match_timeout", s.MatchTimeout)
	v.SetDefault("log_level", s.LogLevel)
	v.SetDefault("listen", s.Listen)

	if path := c.String("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pcre")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pcre")
		v.AddConfigPath("/etc/pcre/")
	}
	v.SetEnvPrefix("PCRE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	for name, key := range flagKeys {
		if c.IsSet(name) {
			v.Set(key, c.Value(name))
		}
	}

	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	s.ConfigFile = v.ConfigFileUsed()
	return s, nil
}

// Config converts s into a pcre.Config.
func (s *Settings) Config() (pcre.Config, error) {
	config := pcre.DefaultConfig()

	backend, err := engine.ParseBackend(s.Backend)
	if err != nil {
		return config, &pcre.ConfigError{Field: "Backend", Message: err.Error()}
	}
	if len(s.Delimiter) != 1 {
		return config, &pcre.ConfigError{Field: "Delimiter", Message: "must be a single byte"}
	}

	config.Backend = backend
	config.Delimiter = s.Delimiter[0]
	config.CacheSize = s.CacheSize
	config.MatchTimeout = s.MatchTimeout
	return config, config.Validate()
}

// newLogger returns a console logger on stderr at the configured level.
func (s *Settings) newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
