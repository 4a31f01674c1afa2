package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/service"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/mvkdcrypto/treeview/storage"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	ldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

func newTestClient(t *testing.T) *Client {
	ctx := logger.NewLoggerContextTodoForTesting(t)
	db, err := leveldb.Open(ldbstorage.NewMemStorage(), nil)
	require.NoError(t, err)
	eng := storage.NewLevelEngine(db)
	t.Cleanup(func() { eng.Close() })

	scfg, err := service.NewConfig(service.DefaultCacheSize)
	require.NoError(t, err)
	m, err := service.NewManager(scfg, eng, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(service.NewServer(ctx, m).Handler())
	t.Cleanup(srv.Close)

	cfg, err := NewConfig(srv.URL, 0)
	require.NoError(t, err)
	return NewWithHTTPClient(cfg, srv.Client())
}

func TestNewConfig(t *testing.T) {
	for _, bad := range []string{"ftp://x", "http://", "::"} {
		_, err := NewConfig(bad, 0)
		require.Error(t, err, bad)
	}
	_, err := NewConfig("http://localhost:8080", -time.Second)
	require.Error(t, err)

	cfg, err := NewConfig("http://localhost:8080/api/", time.Second)
	require.NoError(t, err)
	c := New(cfg)
	require.Equal(t, "http://localhost:8080/api/trees/7/insert", c.url("trees", "7", "insert"))
	require.Equal(t, "http://localhost:8080/api/trees/a%2Fb", c.url("trees", "a/b"))
}

func TestRoundTrip(t *testing.T) {
	ctx := logger.NewLoggerContextTodoForTesting(t)
	c := newTestClient(t)

	trees, err := c.ListTrees(ctx)
	require.NoError(t, err)
	require.Empty(t, trees)

	h, err := c.CreateTree(ctx, snapshot.VariantRedBlack)
	require.NoError(t, err)
	require.Equal(t, api.TreeHandle{ID: "1", Type: snapshot.VariantRedBlack}, h)

	for _, v := range []int64{5, 3, 8, -2} {
		require.NoError(t, c.Insert(ctx, h.ID, v))
	}
	data, err := c.FetchTree(ctx, h.ID)
	require.NoError(t, err)
	require.Equal(t, "red_black_tree", data.Type)
	require.Len(t, data.Nodes, 4)

	root, err := snapshot.Decode(data.Nodes, snapshot.Options{
		Variant: snapshot.ParseVariant(data.Type),
		Target:  snapshot.TargetOf(-2),
	})
	require.NoError(t, err)
	require.Equal(t, []int64{-2}, root.HighlightedValues())
	require.Equal(t, snapshot.ColorBlack, root.Color)

	res, err := c.Search(ctx, h.ID, 8)
	require.NoError(t, err)
	require.Equal(t, api.SearchResult{Found: true}, res)

	require.NoError(t, c.Remove(ctx, h.ID, 5))
	require.NoError(t, c.DeleteTree(ctx, h.ID))
	trees, err = c.ListTrees(ctx)
	require.NoError(t, err)
	require.Empty(t, trees)
}

func TestStatusErrors(t *testing.T) {
	ctx := logger.NewLoggerContextTodoForTesting(t)
	c := newTestClient(t)

	_, err := c.FetchTree(ctx, "42")
	require.True(t, IsNotFound(err))
	require.EqualError(t, err, "tree service: 404: Tree not found")

	err = c.DeleteTree(ctx, "42")
	require.True(t, IsNotFound(err))

	_, err = c.CreateTree(ctx, snapshot.Variant("avl"))
	require.Error(t, err)
	serr, ok := err.(*StatusError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, serr.Code)
	require.Equal(t, "Unsupported tree type: avl", serr.Message)
}

func TestTransportError(t *testing.T) {
	ctx := logger.NewLoggerContextTodoForTesting(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg, err := NewConfig(srv.URL, 0)
	require.NoError(t, err)
	srv.Close()

	_, err = New(cfg).ListTrees(ctx)
	require.Error(t, err)
	require.False(t, IsNotFound(err))
}
