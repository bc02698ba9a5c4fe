// Package logging builds the logr.Logger shared by the fdstencil components.
package logging

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the zap backend.
type Options struct {
	// Development selects the human-readable console encoder.
	Development bool
	// Verbosity enables logr V-levels up to and including this value.
	Verbosity int
	// DestWriter defaults to os.Stderr.
	DestWriter io.Writer
}

// New returns a logr.Logger backed by zap.
func New(opts Options) logr.Logger {
	w := opts.DestWriter
	if w == nil {
		w = os.Stderr
	}
	if opts.Verbosity < 0 {
		opts.Verbosity = 0
	}

	var encCfg zapcore.EncoderConfig
	if opts.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
	} else {
		encCfg = zap.NewProductionEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	var enc zapcore.Encoder
	if opts.Development {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	// zapr maps V(n) to zap level -n.
	level := zap.NewAtomicLevelAt(zapcore.Level(-opts.Verbosity))
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)

	zl := zap.New(core, zap.AddStacktrace(zapcore.Level(3)))
	if opts.Development {
		zl = zl.WithOptions(zap.Development())
	}
	return zapr.NewLogger(zl)
}

// OrDiscard returns l, or a discarding logger when l has no sink.
func OrDiscard(l logr.Logger) logr.Logger {
	if l.GetSink() == nil {
		return logr.Discard()
	}
	return l
}
