package service

import (
	"github.com/mvkdcrypto/treeview/bst"
	"github.com/mvkdcrypto/treeview/rbtree"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/pkg/errors"
)

// ErrUnsupportedType is the cause when a tree of an unknown variant is
// requested.
var ErrUnsupportedType = errors.New("unsupported tree type")

// Tree is a live tree held by the service.
type Tree interface {
	Insert(key int64)
	Remove(key int64)
	// Lookup reports whether key is present and whether looking it up
	// changed the tree's shape.
	Lookup(key int64) (found bool, modified bool)
	Snapshot() []snapshot.NodeRecord
}

var (
	_ Tree = (*bst.Tree)(nil)
	_ Tree = (*bst.SplayTree)(nil)
	_ Tree = (*rbtree.Tree)(nil)
)

func newTree(v snapshot.Variant) (Tree, error) {
	switch v {
	case snapshot.VariantBinary:
		return bst.New(), nil
	case snapshot.VariantRedBlack:
		return rbtree.New(), nil
	case snapshot.VariantSplay:
		return bst.NewSplay(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "Unsupported tree type: %s", v)
	}
}

// restoreTree rebuilds a live tree of variant v from its stored snapshot.
func restoreTree(v snapshot.Variant, nodes []snapshot.NodeRecord) (Tree, error) {
	if _, err := newTree(v); err != nil {
		return nil, err
	}
	root, err := snapshot.Decode(nodes, snapshot.Options{Variant: v})
	if err != nil {
		return nil, err
	}
	switch v {
	case snapshot.VariantRedBlack:
		return rbtree.Restore(root), nil
	case snapshot.VariantSplay:
		return bst.RestoreSplay(root), nil
	default:
		return bst.Restore(root), nil
	}
}

// inlineType is the type tag reported with a snapshot fetch.
func inlineType(v snapshot.Variant) string {
	return string(v) + "_tree"
}
