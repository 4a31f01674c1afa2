package viewer

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/client"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/render"
	"github.com/mvkdcrypto/treeview/service"
	"github.com/mvkdcrypto/treeview/session"
	"github.com/mvkdcrypto/treeview/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	ldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

// newTestBackend runs a tree service and returns a client for it.
func newTestBackend(t *testing.T) *client.Client {
	ctx := logger.NewLoggerContextTodoForTesting(t)

	db, err := leveldb.Open(ldbstorage.NewMemStorage(), nil)
	require.NoError(t, err)
	eng := storage.NewLevelEngine(db)
	t.Cleanup(func() { eng.Close() })
	scfg, err := service.NewConfig(service.DefaultCacheSize)
	require.NoError(t, err)
	m, err := service.NewManager(scfg, eng, nil)
	require.NoError(t, err)
	backend := httptest.NewServer(service.NewServer(ctx, m).Handler())
	t.Cleanup(backend.Close)

	ccfg, err := client.NewConfig(backend.URL, 0)
	require.NoError(t, err)
	return client.NewWithHTTPClient(ccfg, backend.Client())
}

// newTestViewer serves a viewer over svc. Cleanup waits for every page
// handler to finish, so nothing logs after the test.
func newTestViewer(t *testing.T, svc session.Service) (*httptest.Server, *Viewer) {
	ctx := logger.NewLoggerContextTodoForTesting(t)
	vcfg, err := NewConfig(DefaultQueueDepth)
	require.NoError(t, err)
	v := New(ctx, vcfg, svc)
	front := httptest.NewServer(v.Handler())
	t.Cleanup(front.Close)
	t.Cleanup(func() {
		require.Eventually(t, func() bool { return v.Conns() == 0 }, 5*time.Second, 10*time.Millisecond)
	})
	return front, v
}

type testPage struct {
	t  *testing.T
	ws *websocket.Conn
}

func openPage(t *testing.T, srv *httptest.Server) *testPage {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	p := &testPage{t: t, ws: ws}
	// The initial state ends with the tree list.
	p.expect(KindList, render.NoTrees)
	return p
}

func (p *testPage) send(req Request) {
	b, err := api.Encode(req)
	require.NoError(p.t, err)
	require.NoError(p.t, p.ws.WriteMessage(websocket.TextMessage, b))
}

// expect reads events until one of kind whose html or text contains want
// arrives, and returns it.
func (p *testPage) expect(kind string, want string) Event {
	require.NoError(p.t, p.ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, b, err := p.ws.ReadMessage()
		require.NoError(p.t, err, "waiting for %s %q", kind, want)
		var ev Event
		require.NoError(p.t, api.Decode(&ev, b))
		if ev.Kind == kind && strings.Contains(ev.HTML+ev.Text, want) {
			return ev
		}
	}
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(0)
	require.IsType(t, InvalidConfigError{}, err)
}

func TestIndexPage(t *testing.T) {
	srv, _ := newTestViewer(t, newTestBackend(t))
	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(b)
	require.Contains(t, body, `<option value="red_black">red_black</option>`)
	require.Contains(t, body, `<span id="current-tree">None</span>`)
}

func TestSessionOverSocket(t *testing.T) {
	srv, _ := newTestViewer(t, newTestBackend(t))
	p := openPage(t, srv)

	p.send(Request{Action: ActionInsert, Value: "5"})
	p.expect(KindWarn, session.WarnSelectFirst)

	p.send(Request{Action: ActionCreate, Variant: "binary"})
	p.expect(KindSelected, "1")
	p.expect(KindView, render.TreeEmpty)

	p.send(Request{Action: ActionInsert, Value: "abc"})
	p.expect(KindWarn, session.WarnInvalidNumber)

	for _, v := range []string{"5", "3", "8"} {
		p.send(Request{Action: ActionInsert, Value: v})
		p.expect(KindClearInput, "")
		p.expect(KindView, ">"+v+"<")
	}

	p.send(Request{Action: ActionSearch, Value: "3"})
	p.expect(KindView, `<div class="node-value highlight">3</div>`)
	p.expect(KindBanner, "Found 3 in the tree!")

	p.send(Request{Action: ActionSearch, Value: "99"})
	ev := p.expect(KindView, "tree-container")
	require.NotContains(t, ev.HTML, "highlight")
	p.expect(KindBanner, "Value 99 not found in the tree.")

	// An unconfirmed delete is ignored; the next event comes from the list.
	p.send(Request{Action: ActionDelete})
	p.send(Request{Action: ActionList})
	p.expect(KindList, "binary (1)")

	p.send(Request{Action: ActionDelete, Confirmed: true})
	p.expect(KindSelected, session.NoneSelected)
	p.expect(KindView, render.SelectTree)
	p.expect(KindList, render.NoTrees)
}

func TestChangesReachOtherPages(t *testing.T) {
	srv, _ := newTestViewer(t, newTestBackend(t))
	a := openPage(t, srv)
	b := openPage(t, srv)

	a.send(Request{Action: ActionCreate, Variant: "red_black"})
	a.expect(KindSelected, "1")
	b.expect(KindList, "red_black (1)")

	b.send(Request{Action: ActionSelect, ID: "1"})
	b.expect(KindView, render.TreeEmpty)

	a.send(Request{Action: ActionInsert, Value: "7"})
	a.expect(KindView, ">7<")
	b.expect(KindView, `<div class="node-value black-node">7</div>`)

	a.send(Request{Action: ActionDelete, Confirmed: true})
	a.expect(KindSelected, session.NoneSelected)
	b.expect(KindSelected, session.NoneSelected)
	b.expect(KindList, render.NoTrees)
}

func TestClosedPageIsUnregistered(t *testing.T) {
	srv, v := newTestViewer(t, newTestBackend(t))
	p := openPage(t, srv)
	require.Equal(t, 1, v.Conns())

	require.NoError(t, p.ws.Close())
	require.Eventually(t, func() bool { return v.Conns() == 0 }, 5*time.Second, 10*time.Millisecond)
}

// brokenFetch fails every snapshot fetch; everything else reaches the
// service.
type brokenFetch struct {
	session.Service
}

func (brokenFetch) FetchTree(ctx logger.ContextInterface, id string) (api.TreeData, error) {
	return api.TreeData{}, errors.New("fetch unavailable")
}

func TestCreateReachesOtherPagesWhenRenderFails(t *testing.T) {
	srv, _ := newTestViewer(t, brokenFetch{newTestBackend(t)})
	a := openPage(t, srv)
	b := openPage(t, srv)

	a.send(Request{Action: ActionCreate, Variant: "binary"})
	a.expect(KindView, render.LoadError)
	b.expect(KindList, "binary (1)")
}
