package bst

// Search does binary-search on a given key and returns the Node with the key.
func (tr *Tree) Search(key int64) *Node {
	return search(tr.Root, key)
}

func search(nd *Node, key int64) *Node {
	for nd != nil {
		switch {
		case nd.Key < key:
			nd = nd.Right
		case key < nd.Key:
			nd = nd.Left
		default:
			return nd
		}
	}
	return nil
}

func (nd *Node) TraverseInOrder(ret []*Node) []*Node {
	if nd == nil {
		return ret
	}
	ret = nd.Left.TraverseInOrder(ret)
	ret = append(ret, nd)
	ret = nd.Right.TraverseInOrder(ret)
	return ret
}

func (tr *Tree) TraverseInOrder() []*Node {
	var ret []*Node
	return tr.Root.TraverseInOrder(ret)
}

// Keys returns the keys of the tree in order.
func (tr *Tree) Keys() []int64 {
	var keys []int64
	for _, nd := range tr.TraverseInOrder() {
		keys = append(keys, nd.Key)
	}
	return keys
}
