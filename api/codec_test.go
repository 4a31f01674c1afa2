package api

import (
	"testing"

	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/stretchr/testify/require"
)

func TestDecodeTreeDataColorTokens(t *testing.T) {
	body := []byte(`{"type":"red_black_tree","nodes":[
		{"key":5,"left":1,"right":2,"color":"black"},
		{"key":3,"left":-1,"right":-1,"color":0},
		{"key":8,"left":-1,"right":-1,"color":"RED"}]}`)

	var td TreeData
	require.NoError(t, Decode(&td, body))
	require.Equal(t, "red_black_tree", td.Type)
	require.Len(t, td.Nodes, 3)
	require.Equal(t, int64(5), td.Nodes[0].Key)
	require.Equal(t, 1, td.Nodes[0].Left)
	require.Equal(t, snapshot.Absent, td.Nodes[1].Right)

	root, err := snapshot.Decode(td.Nodes, snapshot.Options{Variant: snapshot.ParseVariant(td.Type)})
	require.NoError(t, err)
	require.Equal(t, snapshot.ColorBlack, root.Color)
	require.Equal(t, snapshot.ColorRed, root.Left.Color)
	require.Equal(t, snapshot.ColorRed, root.Right.Color)
}

func TestDecodeBinaryHasNoColor(t *testing.T) {
	var td TreeData
	require.NoError(t, Decode(&td, []byte(`{"nodes":[{"key":1,"left":-1,"right":-1}]}`)))
	require.False(t, td.Nodes[0].HasColor())
}

func TestValueRequestMissing(t *testing.T) {
	var req ValueRequest
	require.NoError(t, Decode(&req, []byte(`{}`)))
	require.Nil(t, req.Value)

	require.NoError(t, Decode(&req, []byte(`{"value":0}`)))
	require.NotNil(t, req.Value)
	require.Equal(t, int64(0), *req.Value)
}

func TestEncodeOmitsColor(t *testing.T) {
	out, err := Encode(TreeData{Nodes: []snapshot.NodeRecord{snapshot.Leaf(4)}})
	require.NoError(t, err)
	require.NotContains(t, string(out), "color")
	require.Contains(t, string(out), `"key":4`)
}

func TestDecodeListAndHandleString(t *testing.T) {
	var handles []TreeHandle
	require.NoError(t, Decode(&handles, []byte(`[{"id":"1","type":"binary"},{"id":"2","type":"red_black"}]`)))
	require.Equal(t, []TreeHandle{
		{ID: "1", Type: snapshot.VariantBinary},
		{ID: "2", Type: snapshot.VariantRedBlack},
	}, handles)
	require.Equal(t, "red_black (2)", handles[1].String())
}

func TestDecodeIgnoresHeightField(t *testing.T) {
	var td TreeData
	require.NoError(t, Decode(&td, []byte(`{"type":"avl_tree","nodes":[
		{"key":2,"left":1,"right":-1,"height":2},
		{"key":1,"left":-1,"right":-1,"height":1}]}`)))
	root, err := snapshot.Decode(td.Nodes, snapshot.Options{Variant: snapshot.ParseVariant(td.Type)})
	require.NoError(t, err)
	require.Equal(t, 2, root.Size())
	require.Equal(t, snapshot.ColorNone, root.Color)
}
