// Package logging builds the zap logger used by the command.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the level and encoding of the logger.
type Config struct {
	Level  string // debug, info, warn or error
	Format string // console or json
}

// New returns a logger writing to stderr. An empty level means info and an
// empty format means console.
func New(cfg Config) (*zap.Logger, error) {
	zc, err := zapConfig(cfg)
	if err != nil {
		return nil, err
	}
	return zc.Build()
}

func zapConfig(cfg Config) (zap.Config, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return zap.Config{}, fmt.Errorf("logging: invalid level %q", cfg.Level)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.Sampling = nil

	switch cfg.Format {
	case "", FormatConsole:
		zc.Development = true
		zc.Encoding = FormatConsole
		zc.EncoderConfig.TimeKey = ""
		zc.EncoderConfig.CallerKey = ""
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case FormatJSON:
		zc.Encoding = FormatJSON
	default:
		return zap.Config{}, fmt.Errorf("logging: invalid format %q", cfg.Format)
	}
	return zc, nil
}
