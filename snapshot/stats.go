package snapshot

// Size returns the number of nodes under n, n included.
func (n *VisualNode) Size() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.Size() + n.Right.Size()
}

// Height returns the number of levels under n; the empty tree has height 0.
func (n *VisualNode) Height() int {
	if n == nil {
		return 0
	}
	l, r := n.Left.Height(), n.Right.Height()
	if l > r {
		return l + 1
	}
	return r + 1
}

// LevelCounts returns how many nodes sit at each depth, root first.
func (n *VisualNode) LevelCounts() []int {
	var counts []int
	var walk func(nd *VisualNode, depth int)
	walk = func(nd *VisualNode, depth int) {
		if nd == nil {
			return
		}
		if depth == len(counts) {
			counts = append(counts, 0)
		}
		counts[depth]++
		walk(nd.Left, depth+1)
		walk(nd.Right, depth+1)
	}
	walk(n, 0)
	return counts
}

func (n *VisualNode) TraverseInOrder(ret []*VisualNode) []*VisualNode {
	if n == nil {
		return ret
	}
	ret = n.Left.TraverseInOrder(ret)
	ret = append(ret, n)
	ret = n.Right.TraverseInOrder(ret)
	return ret
}

// HighlightedValues returns the values of every highlighted node, in order.
func (n *VisualNode) HighlightedValues() []int64 {
	var ret []int64
	for _, nd := range n.TraverseInOrder(nil) {
		if nd.Highlighted {
			ret = append(ret, nd.Value)
		}
	}
	return ret
}
