// Package render draws decoded trees: as ASCII art for terminals and as HTML
// fragments for the browser viewer.
package render

import "github.com/mvkdcrypto/treeview/snapshot"

// Placeholder texts shown in place of a tree.
const (
	NoTrees    = "No trees created yet"
	SelectTree = "Select a tree to visualize it"
	TreeEmpty  = "Tree is empty"
	LoadError  = "Error loading tree data"
)

// View is what the visualization panel shows: either a placeholder text or a
// decoded tree.
type View struct {
	Placeholder string
	Root        *snapshot.VisualNode
}

func PlaceholderView(text string) View {
	return View{Placeholder: text}
}

// TreeView wraps a decoded root. A nil root is the empty tree.
func TreeView(root *snapshot.VisualNode) View {
	if root == nil {
		return PlaceholderView(TreeEmpty)
	}
	return View{Root: root}
}

func (v View) IsPlaceholder() bool {
	return v.Root == nil
}
