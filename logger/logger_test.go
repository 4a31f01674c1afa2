package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStandardTagsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("treeview-test", &buf, false)
	ctx := NewContext(WithTag(context.Background(), "tree-1"), l)

	ctx.Info("inserted %d", 5)
	ctx.Debug("hidden %d", 6)

	out := buf.String()
	require.Contains(t, out, "[tree-1] inserted 5")
	require.Contains(t, out, "INFO")
	require.NotContains(t, out, "hidden 6")
}

func TestStandardDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("treeview-test-debug", &buf, true)
	NewContextTodo(l).Debug("visible %s", "now")
	require.Contains(t, buf.String(), "visible now")
}

func TestUpdateContextKeepsLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("treeview-test-update", &buf, false)
	ctx := NewContextTodo(l).UpdateContextToLoggerContext(WithTag(context.Background(), "conn-7"))
	ctx.Warning("dropped")
	require.Contains(t, buf.String(), "[conn-7] dropped")
}

func TestNullDiscards(t *testing.T) {
	ctx := NewContextTodo(NewNull())
	ctx.Error("nothing %d", 1)
	require.Equal(t, context.TODO(), ctx.Ctx())
}
