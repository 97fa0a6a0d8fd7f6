// Package config holds the CLI configuration, read from the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/librescoot/tinyfsm/internal/logging"
)

var (
	// ErrParsingConfig is returned when environment variables can't be parsed.
	ErrParsingConfig = errors.New("failed to parse config from environment")
	// ErrReadingDotenv is returned when a .env file can't be read or parsed.
	ErrReadingDotenv = errors.New("failed to read dotenv file")
)

// DefaultDotenv is read by Load when no files are named. A missing file is fine.
const DefaultDotenv = ".env"

// Config is the CLI configuration. Command-line flags override it.
type Config struct {
	LogLevel    string `env:"TINYFSM_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"TINYFSM_LOG_FORMAT" envDefault:"text"`
	MetricsAddr string `env:"TINYFSM_METRICS_ADDR"`
}

// Load reads the configuration. Values from dotenv files are used only for
// variables the process environment does not set.
//
// Without arguments the optional DefaultDotenv is read; files named
// explicitly must exist. A dotenv file that exists but does not parse is
// always an error.
func Load(files ...string) (Config, error) {
	vars := make(map[string]string)

	if len(files) == 0 {
		dot, err := godotenv.Read(DefaultDotenv)
		switch {
		case err == nil:
			vars = dot
		case !errors.Is(err, fs.ErrNotExist):
			return Config{}, errors.Join(ErrReadingDotenv, err)
		}
	} else {
		dot, err := godotenv.Read(files...)
		if err != nil {
			return Config{}, errors.Join(ErrReadingDotenv, err)
		}
		vars = dot
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// Logger builds the application logger described by the configuration.
func (c Config) Logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return logging.New(level, format), nil
}
