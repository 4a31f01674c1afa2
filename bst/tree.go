// Package bst implements the unbalanced binary search tree and the splay tree
// hosted by the reference tree service. Keys are unique int64s.
package bst

import "github.com/mvkdcrypto/treeview/snapshot"

type Node struct {
	Key   int64
	Left  *Node
	Right *Node
}

// Tree is a plain binary search tree: no rebalancing, duplicates ignored.
type Tree struct {
	Root *Node
}

func New() *Tree {
	return &Tree{}
}

// Insert adds key unless it is already present.
func (tr *Tree) Insert(key int64) {
	p := &tr.Root
	for *p != nil {
		switch {
		case key < (*p).Key:
			p = &(*p).Left
		case (*p).Key < key:
			p = &(*p).Right
		default:
			return
		}
	}
	*p = &Node{Key: key}
}

// Remove deletes key if present. A node with two children takes the key of
// its in-order successor, which is then unlinked.
func (tr *Tree) Remove(key int64) {
	tr.Root = remove(tr.Root, key)
}

func remove(nd *Node, key int64) *Node {
	if nd == nil {
		return nil
	}
	switch {
	case key < nd.Key:
		nd.Left = remove(nd.Left, key)
	case nd.Key < key:
		nd.Right = remove(nd.Right, key)
	case nd.Left == nil:
		return nd.Right
	case nd.Right == nil:
		return nd.Left
	default:
		succ := nd.Right
		for succ.Left != nil {
			succ = succ.Left
		}
		nd.Key = succ.Key
		nd.Right = remove(nd.Right, succ.Key)
	}
	return nd
}

// Lookup reports whether key is in the tree. Plain trees never change
// shape on lookup.
func (tr *Tree) Lookup(key int64) (found bool, modified bool) {
	return tr.Search(key) != nil, false
}

// Snapshot lays the tree out in pre-order, root at index 0.
func (tr *Tree) Snapshot() []snapshot.NodeRecord {
	return flatten(tr.Root)
}

func flatten(root *Node) []snapshot.NodeRecord {
	var out []snapshot.NodeRecord
	var walk func(nd *Node) int
	walk = func(nd *Node) int {
		if nd == nil {
			return snapshot.Absent
		}
		idx := len(out)
		out = append(out, snapshot.Leaf(nd.Key))
		l := walk(nd.Left)
		r := walk(nd.Right)
		out[idx].Left, out[idx].Right = l, r
		return idx
	}
	walk(root)
	return out
}

// Restore rebuilds a tree from a decoded snapshot.
func Restore(root *snapshot.VisualNode) *Tree {
	return &Tree{Root: restore(root)}
}

func restore(vn *snapshot.VisualNode) *Node {
	if vn == nil {
		return nil
	}
	return &Node{Key: vn.Value, Left: restore(vn.Left), Right: restore(vn.Right)}
}
