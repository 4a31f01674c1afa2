// Package snapshot turns the flat, index-linked node arrays served by the tree
// service into owned trees of VisualNode, decorated for the tree's variant and
// overlaid with search highlighting.
package snapshot

// VisualNode is one node of a rendered tree. Left and Right keep the side a
// child hangs on; Children returns the present ones in order.
type VisualNode struct {
	Value       int64
	Highlighted bool
	Color       Color
	Left        *VisualNode
	Right       *VisualNode
}

// Children returns the 0, 1 or 2 present children, left first.
func (n *VisualNode) Children() []*VisualNode {
	var ret []*VisualNode
	if n.Left != nil {
		ret = append(ret, n.Left)
	}
	if n.Right != nil {
		ret = append(ret, n.Right)
	}
	return ret
}

// Options control decoration and highlighting during Decode.
type Options struct {
	Variant Variant
	// Target, when set, highlights every node whose key equals it.
	Target *int64
}

// TargetOf is a convenience for building Options.Target.
func TargetOf(v int64) *int64 {
	return &v
}

type decoder struct {
	nodes   []NodeRecord
	opts    Options
	visited []bool
}

// Decode rebuilds the tree rooted at index 0 of nodes. An empty snapshot is
// the empty tree and yields (nil, nil). Child references that fall outside
// nodes, or that reach a node a second time, fail the whole decode with an
// error whose cause is ErrMalformedSnapshot; no partial tree is returned.
func Decode(nodes []NodeRecord, opts Options) (*VisualNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	d := decoder{
		nodes:   nodes,
		opts:    opts,
		visited: make([]bool, len(nodes)),
	}
	return d.decode(0)
}

func (d *decoder) decode(i int) (*VisualNode, error) {
	if i < 0 || i >= len(d.nodes) {
		return nil, newMalformedError(i, "child reference out of range")
	}
	// Each index may be entered once, which also bounds the recursion depth
	// by len(nodes) on cyclic input.
	if d.visited[i] {
		return nil, newMalformedError(i, "node referenced more than once")
	}
	d.visited[i] = true

	rec := d.nodes[i]
	n := &VisualNode{
		Value:       rec.Key,
		Color:       Decorate(rec, d.opts.Variant),
		Highlighted: matches(rec.Key, d.opts.Target),
	}
	var err error
	if rec.Left != Absent {
		if n.Left, err = d.decode(rec.Left); err != nil {
			return nil, err
		}
	}
	if rec.Right != Absent {
		if n.Right, err = d.decode(rec.Right); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func matches(key int64, target *int64) bool {
	return target != nil && *target == key
}

// Highlight recomputes the overlay on an already decoded tree: nodes whose
// value equals *target are marked, all others are cleared. A nil target
// clears every mark.
func Highlight(root *VisualNode, target *int64) {
	if root == nil {
		return
	}
	root.Highlighted = matches(root.Value, target)
	Highlight(root.Left, target)
	Highlight(root.Right, target)
}
