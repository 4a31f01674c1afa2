package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	logging "github.com/keybase/go-logging"
)

const defaultFormat = "%{time:2006-01-02T15:04:05.000} ▶ [%{level:.4s} %{module} %{shortfile}] %{message}"

type tagKey struct{}

// WithTag attaches a short tag (a tree id, a connection id) to ctx. Standard
// prefixes every message logged under ctx with it.
func WithTag(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, tagKey{}, tag)
}

func tagOf(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if tag, ok := ctx.Value(tagKey{}).(string); ok {
		return tag
	}
	return ""
}

// Standard is a Logger backed by go-logging.
type Standard struct {
	module   string
	backend  logging.LeveledBackend
	depth    int
	internal *logging.Logger
}

var _ Logger = (*Standard)(nil)

// New returns a Standard logger for module writing to stderr at info level.
func New(module string) *Standard {
	return NewWithWriter(module, os.Stderr, false)
}

// NewWithWriter returns a Standard logger for module writing to w. With debug
// set, debug messages are emitted too.
func NewWithWriter(module string, w io.Writer, debug bool) *Standard {
	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(defaultFormat))
	leveled := logging.AddModuleLevel(formatted)
	level := logging.INFO
	if debug {
		level = logging.DEBUG
	}
	leveled.SetLevel(level, module)
	return newStandard(module, leveled, 0)
}

func newStandard(module string, backend logging.LeveledBackend, depth int) *Standard {
	l := logging.MustGetLogger(module)
	l.SetBackend(backend)
	// One frame for the Standard method itself.
	l.ExtraCalldepth = 1 + depth
	return &Standard{module: module, backend: backend, depth: depth, internal: l}
}

func (s *Standard) prefix(ctx context.Context, format string) string {
	if tag := tagOf(ctx); tag != "" {
		return fmt.Sprintf("[%s] %s", tag, format)
	}
	return format
}

func (s *Standard) Debug(format string, args ...interface{}) {
	s.internal.Debugf(format, args...)
}

func (s *Standard) Info(format string, args ...interface{}) {
	s.internal.Infof(format, args...)
}

func (s *Standard) Warning(format string, args ...interface{}) {
	s.internal.Warningf(format, args...)
}

func (s *Standard) Error(format string, args ...interface{}) {
	s.internal.Errorf(format, args...)
}

func (s *Standard) CDebugf(ctx context.Context, format string, args ...interface{}) {
	s.internal.Debugf(s.prefix(ctx, format), args...)
}

func (s *Standard) CInfof(ctx context.Context, format string, args ...interface{}) {
	s.internal.Infof(s.prefix(ctx, format), args...)
}

func (s *Standard) CNoticef(ctx context.Context, format string, args ...interface{}) {
	s.internal.Noticef(s.prefix(ctx, format), args...)
}

func (s *Standard) CWarningf(ctx context.Context, format string, args ...interface{}) {
	s.internal.Warningf(s.prefix(ctx, format), args...)
}

func (s *Standard) CErrorf(ctx context.Context, format string, args ...interface{}) {
	s.internal.Errorf(s.prefix(ctx, format), args...)
}

func (s *Standard) CloneWithAddedDepth(depth int) Logger {
	return newStandard(s.module, s.backend, s.depth+depth)
}
