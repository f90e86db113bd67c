// Package smzap adapts a *zap.Logger to sm.Logger, so a host can get
// structured, leveled diagnostics out of the gate without the sm package
// itself taking a dependency on zap.
package smzap

import (
	"go.uber.org/zap"

	"github.com/corestore/smgate/sm"
)

// New wraps l as an sm.Logger. A nil l results in a nil sm.Logger, which
// sm.WithLogger treats the same as omitting the option.
func New(l *zap.Logger) sm.Logger {
	if l == nil {
		return nil
	}
	return &adapter{l: l}
}

type adapter struct {
	l *zap.Logger
}

func (a *adapter) Warn(msg string, fields ...sm.Field) {
	a.l.Warn(msg, toZap(fields)...)
}

func (a *adapter) Error(msg string, fields ...sm.Field) {
	a.l.Error(msg, toZap(fields)...)
}

func toZap(fields []sm.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}

	return out
}
