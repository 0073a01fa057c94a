// Package logging builds the process-wide zap logger.
//
// All output goes to stderr. Stdout stays reserved for the MCP stdio
// transport and for CLI results, which share the process with the
// checking pipeline.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output encodings
const (
	// FormatJSON emits structured entries for log aggregation
	FormatJSON = "json"
	// FormatConsole emits human-readable output for local development
	FormatConsole = "console"
)

// Config controls logger construction
type Config struct {
	// Level is the minimum severity that will be emitted: debug, info,
	// warn, or error. Unknown values fall back to info.
	Level string `yaml:"level"`

	// Format selects the output encoding, json or console. Unknown
	// values fall back to json.
	Format string `yaml:"format"`
}

// New constructs a logger according to cfg. Components derive their own
// sub-loggers with Named.
func New(cfg Config) (*zap.Logger, error) {
	encoding := FormatJSON
	encCfg := zap.NewProductionEncoderConfig()
	if strings.ToLower(cfg.Format) == FormatConsole {
		encoding = FormatConsole
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Development:      encoding == FormatConsole,
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// ParseLevel converts a level name to a zapcore.Level. Unknown values
// default to InfoLevel so the application remains operational.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
