package bst

import "github.com/mvkdcrypto/treeview/snapshot"

// SplayTree is a self-adjusting binary search tree: every successful access
// rotates the accessed node to the root.
type SplayTree struct {
	Root *Node
}

func NewSplay() *SplayTree {
	return &SplayTree{}
}

func rotateRight(nd *Node) *Node {
	l := nd.Left
	nd.Left = l.Right
	l.Right = nd
	return l
}

func rotateLeft(nd *Node) *Node {
	r := nd.Right
	nd.Right = r.Left
	r.Left = nd
	return r
}

// splay brings key, or the last node on its search path, to the root of the
// subtree at nd.
func splay(nd *Node, key int64) *Node {
	if nd == nil || nd.Key == key {
		return nd
	}
	if key < nd.Key {
		if nd.Left == nil {
			return nd
		}
		switch {
		case key < nd.Left.Key:
			nd.Left.Left = splay(nd.Left.Left, key)
			nd = rotateRight(nd)
		case nd.Left.Key < key:
			nd.Left.Right = splay(nd.Left.Right, key)
			if nd.Left.Right != nil {
				nd.Left = rotateLeft(nd.Left)
			}
		}
		if nd.Left == nil {
			return nd
		}
		return rotateRight(nd)
	}

	if nd.Right == nil {
		return nd
	}
	switch {
	case nd.Right.Key < key:
		nd.Right.Right = splay(nd.Right.Right, key)
		nd = rotateLeft(nd)
	case key < nd.Right.Key:
		nd.Right.Left = splay(nd.Right.Left, key)
		if nd.Right.Left != nil {
			nd.Right = rotateRight(nd.Right)
		}
	}
	if nd.Right == nil {
		return nd
	}
	return rotateLeft(nd)
}

// Insert adds key and splays it to the root. An existing key is splayed
// instead.
func (tr *SplayTree) Insert(key int64) {
	if tr.Root == nil {
		tr.Root = &Node{Key: key}
		return
	}
	tr.Root = splay(tr.Root, key)
	if tr.Root.Key == key {
		return
	}
	nd := &Node{Key: key}
	if key < tr.Root.Key {
		nd.Left = tr.Root.Left
		nd.Right = tr.Root
		tr.Root.Left = nil
	} else {
		nd.Right = tr.Root.Right
		nd.Left = tr.Root
		tr.Root.Right = nil
	}
	tr.Root = nd
}

// Remove deletes key if present.
func (tr *SplayTree) Remove(key int64) {
	if search(tr.Root, key) == nil {
		return
	}
	tr.Root = splay(tr.Root, key)
	if tr.Root.Left == nil {
		tr.Root = tr.Root.Right
		return
	}
	right := tr.Root.Right
	// Every key on the left is smaller, so splaying for key brings the
	// maximum of the left subtree up, leaving its right slot free.
	tr.Root = splay(tr.Root.Left, key)
	tr.Root.Right = right
}

// Lookup reports whether key is present. A hit is splayed to the root, and
// modified reports whether that changed the root.
func (tr *SplayTree) Lookup(key int64) (found bool, modified bool) {
	if search(tr.Root, key) == nil {
		return false, false
	}
	before := tr.Root
	tr.Root = splay(tr.Root, key)
	return true, tr.Root != before
}

func (tr *SplayTree) Keys() []int64 {
	var keys []int64
	for _, nd := range tr.Root.TraverseInOrder(nil) {
		keys = append(keys, nd.Key)
	}
	return keys
}

func (tr *SplayTree) Snapshot() []snapshot.NodeRecord {
	return flatten(tr.Root)
}

func RestoreSplay(root *snapshot.VisualNode) *SplayTree {
	return &SplayTree{Root: restore(root)}
}
