package rbtree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/stretchr/testify/require"
)

// checkInvariants verifies the left-leaning red-black shape and returns the
// black height.
func checkInvariants(t *testing.T, n *Node, lo, hi *int64) int {
	if n == nil {
		return 1
	}
	if lo != nil {
		require.Less(t, *lo, n.Key)
	}
	if hi != nil {
		require.Less(t, n.Key, *hi)
	}
	require.NotEqual(t, Red, n.Right.color(), "right-leaning red at %d", n.Key)
	if n.Color == Red {
		require.NotEqual(t, Red, n.Left.color(), "double red at %d", n.Key)
	}
	lh := checkInvariants(t, n.Left, lo, &n.Key)
	rh := checkInvariants(t, n.Right, &n.Key, hi)
	require.Equal(t, lh, rh, "black height mismatch at %d", n.Key)
	if n.Color == Black {
		lh++
	}
	return lh
}

func TestInsertColors(t *testing.T) {
	tr := New()
	for _, k := range []int64{5, 3, 8} {
		tr.Insert(k)
	}
	black := func(k int64) snapshot.NodeRecord {
		rec := snapshot.Leaf(k)
		rec.Color = "black"
		return rec
	}
	root := black(5)
	root.Left, root.Right = 1, 2
	require.Equal(t, []snapshot.NodeRecord{root, black(3), black(8)}, tr.Snapshot())

	tr.Insert(1)
	nodes := tr.Snapshot()
	require.Equal(t, "red", nodes[2].Color)
	require.Equal(t, int64(1), nodes[2].Key)
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	tr := New()
	present := map[int64]bool{}
	for i := 0; i < 2000; i++ {
		k := int64(r.Intn(200))
		if r.Intn(3) == 0 {
			tr.Remove(k)
			delete(present, k)
		} else {
			tr.Insert(k)
			present[k] = true
		}
		if i%50 == 0 {
			if tr.Root != nil {
				require.Equal(t, Black, tr.Root.Color)
			}
			checkInvariants(t, tr.Root, nil, nil)
		}
	}
	var want []int64
	for k := range present {
		want = append(want, k)
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	require.Equal(t, want, tr.Keys())
	require.Equal(t, len(want), tr.Count)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	tr := New()
	for k := int64(0); k < 10; k++ {
		tr.Insert(k)
	}
	before := tr.Snapshot()
	tr.Remove(42)
	require.Equal(t, before, tr.Snapshot())
	require.Equal(t, 10, tr.Count)

	empty := New()
	empty.Remove(1)
	require.Nil(t, empty.Root)
}

func TestLookup(t *testing.T) {
	tr := New()
	tr.Insert(7)
	found, modified := tr.Lookup(7)
	require.True(t, found)
	require.False(t, modified)
	found, _ = tr.Lookup(8)
	require.False(t, found)
}

func TestRestoreRoundTrip(t *testing.T) {
	tr := New()
	for k := int64(1); k <= 20; k++ {
		tr.Insert(k)
	}
	nodes := tr.Snapshot()
	root, err := snapshot.Decode(nodes, snapshot.Options{Variant: snapshot.VariantRedBlack})
	require.NoError(t, err)
	restored := Restore(root)
	require.Equal(t, nodes, restored.Snapshot())
	require.Equal(t, 20, restored.Count)
	checkInvariants(t, restored.Root, nil, nil)
}
