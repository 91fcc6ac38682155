package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// SystemTraceID is used when no distributed trace context is available.
	SystemTraceID = "system"
	// SystemSpanID is used when no distributed span context is available.
	SystemSpanID = "system"
)

// Options controls where and how verbosely the logger writes.
type Options struct {
	Service string
	Env     string
	// Output is a zap sink such as "stderr" or "stdout". Empty means stderr.
	Output string
	// File, when set, duplicates every entry into that file.
	File  string
	Level string
	// Encoding is "json" (default) or "console" for human-readable lines.
	Encoding string
}

// NewLogger creates a production-ready zap logger that emits JSON logs unless Encoding says otherwise.
// It enriches each log entry with the provided service and environment identifiers.
func NewLogger(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	output := opts.Output
	if output == "" {
		output = "stderr"
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}

	if opts.File != "" {
		if err := ensureLogFile(opts.File); err != nil {
			return nil, fmt.Errorf("prepare log file: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, opts.File)
	}

	if opts.Level != "" {
		lvl, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	switch opts.Encoding {
	case "", "json":
	case "console":
		cfg.Encoding = "console"
	default:
		return nil, fmt.Errorf("unknown log encoding %q", opts.Encoding)
	}

	// Ensure encoder keys align with structured logging requirements.
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	cfg.InitialFields = map[string]any{
		"service": opts.Service,
		"env":     opts.Env,
	}

	return cfg.Build()
}

// MustNewLogger is like NewLogger but panics if the logger cannot be created.
func MustNewLogger(opts Options) *zap.Logger {
	logger, err := NewLogger(opts)
	if err != nil {
		panic(err)
	}
	return logger
}

// WithTrace returns a logger enriched with trace and span identifiers.
// Unknown values are normalised to the literal "unknown" to ensure required fields exist.
func WithTrace(logger *zap.Logger, traceID, spanID string) *zap.Logger {
	if logger == nil {
		logger = zap.L()
	}
	if traceID == "" {
		traceID = "unknown"
	}
	if spanID == "" {
		spanID = "unknown"
	}
	return logger.With(
		zap.String("trace_id", traceID),
		zap.String("span_id", spanID),
	)
}

func ensureLogFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		f, createErr := os.OpenFile(path, os.O_CREATE, 0o644)
		if createErr != nil {
			return createErr
		}
		_ = f.Close()
	}
	return nil
}
