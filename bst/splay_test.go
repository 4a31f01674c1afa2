package bst

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/stretchr/testify/require"
)

func TestSplayInsertBringsKeyToRoot(t *testing.T) {
	tr := NewSplay()
	for _, k := range []int64{5, 3, 8} {
		tr.Insert(k)
		require.Equal(t, k, tr.Root.Key)
	}
	require.Equal(t, []int64{3, 5, 8}, tr.Keys())
}

func TestSplayLookup(t *testing.T) {
	tr := NewSplay()
	for _, k := range []int64{5, 3, 8} {
		tr.Insert(k)
	}
	// 8 was inserted last and sits at the root.
	found, modified := tr.Lookup(8)
	require.True(t, found)
	require.False(t, modified)

	found, modified = tr.Lookup(3)
	require.True(t, found)
	require.True(t, modified)
	require.Equal(t, int64(3), tr.Root.Key)

	before := tr.Snapshot()
	found, modified = tr.Lookup(99)
	require.False(t, found)
	require.False(t, modified)
	require.Equal(t, before, tr.Snapshot())
}

func TestSplayRemove(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	tr := NewSplay()
	present := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		k := int64(r.Intn(64))
		switch r.Intn(3) {
		case 0:
			tr.Remove(k)
			delete(present, k)
		case 1:
			tr.Lookup(k)
		default:
			tr.Insert(k)
			present[k] = true
		}
	}
	var want []int64
	for k := range present {
		want = append(want, k)
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	require.Equal(t, want, tr.Keys())
}

func TestSplayRestore(t *testing.T) {
	tr := NewSplay()
	for _, k := range []int64{9, 1, 7, 3} {
		tr.Insert(k)
	}
	nodes := tr.Snapshot()
	root, err := snapshot.Decode(nodes, snapshot.Options{})
	require.NoError(t, err)
	require.Equal(t, nodes, RestoreSplay(root).Snapshot())
}
