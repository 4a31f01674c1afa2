package logger

import (
	"context"
	"fmt"
	"testing"
)

// TestLogger routes log output through testing.TB so it is attached to the
// test that produced it.
type TestLogger struct {
	t testing.TB
}

var _ Logger = (*TestLogger)(nil)

func NewTestLogger(t testing.TB) *TestLogger {
	return &TestLogger{t: t}
}

func (l *TestLogger) log(level string, ctx context.Context, format string, args ...interface{}) {
	l.t.Helper()
	msg := fmt.Sprintf(format, args...)
	if tag := tagOf(ctx); tag != "" {
		msg = fmt.Sprintf("[%s] %s", tag, msg)
	}
	l.t.Logf("%s %s", level, msg)
}

func (l *TestLogger) Debug(format string, args ...interface{}) {
	l.log("DEBU", nil, format, args...)
}

func (l *TestLogger) Info(format string, args ...interface{}) {
	l.log("INFO", nil, format, args...)
}

func (l *TestLogger) Warning(format string, args ...interface{}) {
	l.log("WARN", nil, format, args...)
}

func (l *TestLogger) Error(format string, args ...interface{}) {
	l.log("ERRO", nil, format, args...)
}

func (l *TestLogger) CDebugf(ctx context.Context, format string, args ...interface{}) {
	l.log("DEBU", ctx, format, args...)
}

func (l *TestLogger) CInfof(ctx context.Context, format string, args ...interface{}) {
	l.log("INFO", ctx, format, args...)
}

func (l *TestLogger) CNoticef(ctx context.Context, format string, args ...interface{}) {
	l.log("NOTI", ctx, format, args...)
}

func (l *TestLogger) CWarningf(ctx context.Context, format string, args ...interface{}) {
	l.log("WARN", ctx, format, args...)
}

func (l *TestLogger) CErrorf(ctx context.Context, format string, args ...interface{}) {
	l.log("ERRO", ctx, format, args...)
}

func (l *TestLogger) CloneWithAddedDepth(depth int) Logger { return l }

// NewLoggerContextTodoForTesting is the ContextInterface every package's
// tests start from.
func NewLoggerContextTodoForTesting(t testing.TB) ContextInterface {
	return NewContext(context.TODO(), NewTestLogger(t))
}
