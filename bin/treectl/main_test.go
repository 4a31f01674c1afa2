package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mvkdcrypto/treeview/client"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/service"
	"github.com/mvkdcrypto/treeview/session"
	"github.com/mvkdcrypto/treeview/storage"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	ldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

func newTestService(t *testing.T) *httptest.Server {
	ctx := logger.NewLoggerContextTodoForTesting(t)
	db, err := leveldb.Open(ldbstorage.NewMemStorage(), nil)
	require.NoError(t, err)
	eng := storage.NewLevelEngine(db)
	t.Cleanup(func() { eng.Close() })

	cfg, err := service.NewConfig(service.DefaultCacheSize)
	require.NoError(t, err)
	m, err := service.NewManager(cfg, eng, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(service.NewServer(ctx, m).Handler())
	t.Cleanup(srv.Close)
	return srv
}

type runResult struct {
	out string
	err string
}

func run(t *testing.T, srv *httptest.Server, stdin string, args ...string) (runResult, error) {
	var out, errOut bytes.Buffer
	ctl := newCtl(&out, &errOut, strings.NewReader(stdin))
	ctl.newService = func(cfg client.Config) session.Service {
		return client.NewWithHTTPClient(cfg, srv.Client())
	}
	ctl.Root.SetArgs(append([]string{"--service", srv.URL}, args...))
	err := ctl.Root.Execute()
	return runResult{out: out.String(), err: errOut.String()}, err
}

func TestCommands(t *testing.T) {
	srv := newTestService(t)

	res, err := run(t, srv, "", "list")
	require.NoError(t, err)
	require.Equal(t, "No trees created yet\n", res.out)

	res, err = run(t, srv, "", "create", "binary")
	require.NoError(t, err)
	require.Equal(t, "created binary (1)\nTree is empty\n", res.out)

	res, err = run(t, srv, "", "insert", "1", "5", "3", "8")
	require.NoError(t, err)
	require.Equal(t, "  ,--8\n5\n  `--3\n", res.out)

	res, err = run(t, srv, "", "search", "1", "3")
	require.NoError(t, err)
	require.Equal(t, "  ,--8\n5\n  `--[3]\nFound 3 in the tree!\n", res.out)

	res, err = run(t, srv, "", "show", "1", "--search", "4")
	require.NoError(t, err)
	require.Contains(t, res.out, "Value 4 not found in the tree.")

	res, err = run(t, srv, "", "insert", "1", "x")
	require.Error(t, err)
	require.Equal(t, session.WarnInvalidNumber+"\n", res.err)

	res, err = run(t, srv, "", "remove", "1", "8")
	require.NoError(t, err)
	require.Equal(t, "5\n  `--3\n", res.out)

	res, err = run(t, srv, "", "list")
	require.NoError(t, err)
	require.Contains(t, res.out, "binary")
	require.Contains(t, res.out, "TYPE")

	res, err = run(t, srv, "", "stats", "1")
	require.NoError(t, err)
	require.Contains(t, res.out, "size:   2\n")
	require.Contains(t, res.out, "height: 2\n")
	require.Contains(t, res.out, "nodes per depth")
}

func TestDeleteConfirmation(t *testing.T) {
	srv := newTestService(t)

	_, err := run(t, srv, "", "create", "splay")
	require.NoError(t, err)

	res, err := run(t, srv, "n\n", "delete", "1")
	require.NoError(t, err)
	require.Equal(t, session.ConfirmDelete+" [y/N] not deleted\n", res.out)

	res, err = run(t, srv, "y\n", "delete", "1")
	require.NoError(t, err)
	require.Contains(t, res.out, "deleted 1\n")

	_, err = run(t, srv, "", "show", "1")
	require.Error(t, err)
	require.True(t, client.IsNotFound(err))

	_, err = run(t, srv, "", "create", "avl")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Unsupported tree type: avl")
}

func TestDeleteAssumeYes(t *testing.T) {
	srv := newTestService(t)

	_, err := run(t, srv, "", "create", "red_black")
	require.NoError(t, err)
	res, err := run(t, srv, "", "delete", "--yes", "1")
	require.NoError(t, err)
	require.Equal(t, "deleted 1\n", res.out)

	res, err = run(t, srv, "", "list")
	require.NoError(t, err)
	require.Equal(t, "No trees created yet\n", res.out)
}
