package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mvkdcrypto/treeview/snapshot"
)

// Label is the text drawn for a single node: the value, wrapped as R(v) or
// B(v) when colored, and bracketed when highlighted.
func Label(n *snapshot.VisualNode) string {
	var s string
	switch n.Color {
	case snapshot.ColorRed:
		s = fmt.Sprintf("R(%d)", n.Value)
	case snapshot.ColorBlack:
		s = fmt.Sprintf("B(%d)", n.Value)
	default:
		s = fmt.Sprintf("%d", n.Value)
	}
	if n.Highlighted {
		s = "[" + s + "]"
	}
	return s
}

// Text returns the view as ASCII art, right subtree above its parent and
// left subtree below.
func Text(v View) string {
	var out strings.Builder
	WriteText(&out, v)
	return out.String()
}

func WriteText(w io.Writer, v View) {
	if v.IsPlaceholder() {
		fmt.Fprintln(w, v.Placeholder)
		return
	}
	asciiArt(w, v.Root, "", "", "")
}

// u, m and l are the prefixes for lines above, at and below n.
func asciiArt(w io.Writer, n *snapshot.VisualNode, u, m, l string) {
	if n.Right != nil {
		asciiArt(w, n.Right, u+"     ", u+"  ,--", u+"  |  ")
	}
	fmt.Fprintf(w, "%s%s\n", m, Label(n))
	if n.Left != nil {
		asciiArt(w, n.Left, l+"  |  ", l+"  `--", l+"     ")
	}
}
