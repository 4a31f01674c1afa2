package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/render"
	"github.com/mvkdcrypto/treeview/session"
)

// terminal is a session.Display that keeps the latest state and prints it
// once the command is done. Warnings go out immediately.
type terminal struct {
	out       io.Writer
	errOut    io.Writer
	in        *bufio.Reader
	assumeYes bool

	handles  []api.TreeHandle
	selected string
	view     *render.View
	banner   *session.Banner
}

var _ session.Display = (*terminal)(nil)

func newTerminal(out, errOut io.Writer, in io.Reader, assumeYes bool) *terminal {
	return &terminal{out: out, errOut: errOut, in: bufio.NewReader(in), assumeYes: assumeYes}
}

func (t *terminal) ShowTreeList(handles []api.TreeHandle, selected string) {
	t.handles = handles
}

func (t *terminal) ShowSelected(id string) {
	t.selected = id
}

func (t *terminal) ShowView(v render.View) {
	t.view = &v
}

func (t *terminal) ShowBanner(b *session.Banner) {
	t.banner = b
}

func (t *terminal) Warn(msg string) {
	fmt.Fprintln(t.errOut, msg)
}

func (t *terminal) Confirm(msg string) bool {
	if t.assumeYes {
		return true
	}
	fmt.Fprintf(t.out, "%s [y/N] ", msg)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *terminal) ClearInput() {}

// flush prints the tree and the search banner, if any.
func (t *terminal) flush() {
	if t.view != nil {
		render.WriteText(t.out, *t.view)
	}
	if t.banner != nil {
		fmt.Fprintln(t.out, t.banner.Text())
	}
}
