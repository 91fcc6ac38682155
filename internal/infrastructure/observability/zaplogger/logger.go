package zaplogger

import (
	"fmt"

	"github.com/Zhima-Mochi/marketplace-console/internal/observability"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logger struct{ l *zap.Logger }

// Wrap adapts a zap logger to the observability.Logger port.
// Fixed fields are bound once on the returned logger.
func Wrap(l *zap.Logger, fixed ...observability.Field) observability.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if len(fixed) > 0 {
		l = l.With(toZapFields(fixed)...)
	}
	return &logger{l: l}
}

func (z *logger) With(fields ...observability.Field) observability.Logger {
	if len(fields) == 0 {
		return z
	}
	return &logger{l: z.l.With(toZapFields(fields)...)}
}

func (z *logger) Debug(msg string, fields ...observability.Field) { z.write(zapcore.DebugLevel, msg, fields) }
func (z *logger) Info(msg string, fields ...observability.Field)  { z.write(zapcore.InfoLevel, msg, fields) }
func (z *logger) Warn(msg string, fields ...observability.Field)  { z.write(zapcore.WarnLevel, msg, fields) }
func (z *logger) Error(msg string, fields ...observability.Field) { z.write(zapcore.ErrorLevel, msg, fields) }

// write skips field conversion entirely when the level is disabled.
func (z *logger) write(lvl zapcore.Level, msg string, fields []observability.Field) {
	if ce := z.l.Check(lvl, msg); ce != nil {
		ce.Write(toZapFields(fields)...)
	}
}

// toZapFields keeps errors as errors and renders money as exact decimal strings
// instead of letting zap reflect over decimal internals.
func toZapFields(fs []observability.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fs))
	for _, f := range fs {
		switch v := f.Value.(type) {
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		case decimal.Decimal:
			out = append(out, zap.String(f.Key, v.String()))
		case fmt.Stringer:
			out = append(out, zap.Stringer(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}
