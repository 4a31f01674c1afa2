// Package rbtree implements the red-black tree hosted by the reference tree
// service, as a bottom-up 2-3 left-leaning red-black tree over unique int64
// keys.
package rbtree

import "github.com/mvkdcrypto/treeview/snapshot"

// Color of a node. New nodes are red.
type Color bool

const (
	Red   Color = false
	Black Color = true
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "red"
}

type Node struct {
	Key         int64
	Left, Right *Node
	Color       Color
}

type Tree struct {
	Root  *Node
	Count int
}

func New() *Tree {
	return &Tree{}
}

// color returns the effective color of n. A nil node is black.
func (n *Node) color() Color {
	if n == nil {
		return Black
	}
	return n.Color
}

// (a,c)b -rotL-> ((a,)b,)c
func (n *Node) rotateLeft() *Node {
	root := n.Right
	n.Right = root.Left
	root.Left = n
	root.Color = n.Color
	n.Color = Red
	return root
}

// (a,c)b -rotR-> (,(,c)b)a
func (n *Node) rotateRight() *Node {
	root := n.Left
	n.Left = root.Right
	root.Right = n
	root.Color = n.Color
	n.Color = Red
	return root
}

func (n *Node) flipColors() {
	n.Color = !n.Color
	n.Left.Color = !n.Left.Color
	n.Right.Color = !n.Right.Color
}

// fixUp restores left-leaning reds and splits 4-nodes on the way up.
func (n *Node) fixUp() *Node {
	if n.Right.color() == Red {
		n = n.rotateLeft()
	}
	if n.Left.color() == Red && n.Left.Left.color() == Red {
		n = n.rotateRight()
	}
	if n.Left.color() == Red && n.Right.color() == Red {
		n.flipColors()
	}
	return n
}

func (n *Node) moveRedLeft() *Node {
	n.flipColors()
	if n.Right.Left.color() == Red {
		n.Right = n.Right.rotateRight()
		n = n.rotateLeft()
		n.flipColors()
	}
	return n
}

func (n *Node) moveRedRight() *Node {
	n.flipColors()
	if n.Left.Left.color() == Red {
		n = n.rotateRight()
		n.flipColors()
	}
	return n
}

func (n *Node) search(key int64) *Node {
	for n != nil {
		switch {
		case key < n.Key:
			n = n.Left
		case n.Key < key:
			n = n.Right
		default:
			return n
		}
	}
	return nil
}

func (n *Node) min() *Node {
	for ; n.Left != nil; n = n.Left {
	}
	return n
}

// Lookup reports whether key is present. Lookups never restructure the tree.
func (t *Tree) Lookup(key int64) (found bool, modified bool) {
	return t.Root.search(key) != nil, false
}

// Insert adds key unless it is already present.
func (t *Tree) Insert(key int64) {
	var d int
	t.Root, d = t.Root.insert(key)
	t.Count += d
	t.Root.Color = Black
}

func (n *Node) insert(key int64) (*Node, int) {
	if n == nil {
		return &Node{Key: key}, 1
	}
	var d int
	switch {
	case key < n.Key:
		n.Left, d = n.Left.insert(key)
	case n.Key < key:
		n.Right, d = n.Right.insert(key)
	}

	if n.Right.color() == Red && n.Left.color() == Black {
		n = n.rotateLeft()
	}
	if n.Left.color() == Red && n.Left.Left.color() == Red {
		n = n.rotateRight()
	}
	if n.Left.color() == Red && n.Right.color() == Red {
		n.flipColors()
	}
	return n, d
}

// Remove deletes key if present. Absent keys leave the tree untouched,
// since the top-down delete would otherwise recolor on the way down.
func (t *Tree) Remove(key int64) {
	if t.Root.search(key) == nil {
		return
	}
	var d int
	t.Root, d = t.Root.delete(key)
	t.Count += d
	if t.Root == nil {
		return
	}
	t.Root.Color = Black
}

func (n *Node) deleteMin() (*Node, int) {
	if n.Left == nil {
		return nil, -1
	}
	if n.Left.color() == Black && n.Left.Left.color() == Black {
		n = n.moveRedLeft()
	}
	var d int
	n.Left, d = n.Left.deleteMin()
	return n.fixUp(), d
}

func (n *Node) delete(key int64) (*Node, int) {
	var d int
	if key < n.Key {
		if n.Left != nil {
			if n.Left.color() == Black && n.Left.Left.color() == Black {
				n = n.moveRedLeft()
			}
			n.Left, d = n.Left.delete(key)
		}
	} else {
		if n.Left.color() == Red {
			n = n.rotateRight()
		}
		if n.Right == nil && key == n.Key {
			return nil, -1
		}
		if n.Right != nil {
			if n.Right.color() == Black && n.Right.Left.color() == Black {
				n = n.moveRedRight()
			}
			if key == n.Key {
				n.Key = n.Right.min().Key
				n.Right, d = n.Right.deleteMin()
			} else {
				n.Right, d = n.Right.delete(key)
			}
		}
	}
	return n.fixUp(), d
}

// Keys returns the keys in ascending order.
func (t *Tree) Keys() []int64 {
	var out []int64
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		walk(n.Left)
		out = append(out, n.Key)
		walk(n.Right)
	}
	walk(t.Root)
	return out
}

// Snapshot lays the tree out in pre-order, root at index 0, with every
// record carrying its color as "red" or "black".
func (t *Tree) Snapshot() []snapshot.NodeRecord {
	var out []snapshot.NodeRecord
	var walk func(n *Node) int
	walk = func(n *Node) int {
		if n == nil {
			return snapshot.Absent
		}
		idx := len(out)
		rec := snapshot.Leaf(n.Key)
		rec.Color = n.Color.String()
		out = append(out, rec)
		l := walk(n.Left)
		r := walk(n.Right)
		out[idx].Left, out[idx].Right = l, r
		return idx
	}
	walk(t.Root)
	return out
}

// Restore rebuilds a tree from a snapshot decoded as a red-black tree.
// Nodes decoded without a color are taken as black.
func Restore(root *snapshot.VisualNode) *Tree {
	t := &Tree{}
	t.Root = t.restore(root)
	return t
}

func (t *Tree) restore(vn *snapshot.VisualNode) *Node {
	if vn == nil {
		return nil
	}
	t.Count++
	n := &Node{Key: vn.Value, Color: Black}
	if vn.Color == snapshot.ColorRed {
		n.Color = Red
	}
	n.Left = t.restore(vn.Left)
	n.Right = t.restore(vn.Right)
	return n
}
