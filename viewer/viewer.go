// Package viewer serves the browser front end. Every open page holds a
// websocket; each socket owns one session.Session whose display updates are
// pushed to the page as HTML fragments.
package viewer

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/session"
	"github.com/mvkdcrypto/treeview/snapshot"
)

type Viewer struct {
	cfg      Config
	ctx      logger.ContextInterface
	svc      session.Service
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*conn]struct{}
	nextID int
}

// New returns a viewer whose sessions all talk to svc, which must be safe
// for concurrent use.
func New(ctx logger.ContextInterface, cfg Config, svc session.Service) *Viewer {
	return &Viewer{
		cfg: cfg,
		ctx: ctx,
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[*conn]struct{}),
	}
}

func (v *Viewer) Route(router *mux.Router) {
	router.Path("/ws").HandlerFunc(v.handleWebSocket)
	router.Path("/").Methods(http.MethodGet).HandlerFunc(v.index)
}

func (v *Viewer) Handler() http.Handler {
	router := mux.NewRouter()
	v.Route(router)
	return router
}

// Conns returns the number of pages whose handlers are still running.
func (v *Viewer) Conns() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.conns)
}

func (v *Viewer) register(c *conn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.conns[c] = struct{}{}
}

func (v *Viewer) unregister(c *conn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.conns, c)
}

// broadcast tells every page but from that the trees changed.
func (v *Viewer) broadcast(from *conn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for c := range v.conns {
		if c != from {
			c.notify()
		}
	}
}

func (v *Viewer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := v.upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.ctx.Warning("WebSocket upgrade failed: %v", err)
		return
	}

	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.mu.Unlock()

	cctx, cancel := context.WithCancel(logger.WithTag(r.Context(), fmt.Sprintf("page %d", id)))
	ctx := v.ctx.UpdateContextToLoggerContext(cctx)
	ctx.Debug("connected from %s", r.RemoteAddr)

	c := newConn(v, ws, ctx, cancel)
	v.register(c)
	defer v.unregister(c)
	go c.readLoop()
	c.run()

	cancel()
	if err := ws.Close(); err != nil {
		ctx.Debug("close: %v", err)
	}
	// readLoop closes actions on exit; a page is only unregistered once
	// both of its goroutines are done.
	for range c.actions {
	}
	ctx.Debug("disconnected")
}

func (v *Viewer) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if err := page.Execute(w, struct {
		Variants []snapshot.Variant
		Confirm  string
		None     string
	}{snapshot.Variants, session.ConfirmDelete, session.NoneSelected}); err != nil {
		v.ctx.Error("While rendering HTML: %v", err)
	}
}

var page = template.Must(template.New("index.html").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Tree Viewer</title>
<style>
body { font-family: sans-serif; display: flex; gap: 2em; }
.tree-item { cursor: pointer; padding: 2px 6px; }
.tree-item.selected { background: #def; }
.tree-container { overflow: auto; }
.tree-node { display: flex; flex-direction: column; align-items: center; }
.node-value { border: 1px solid #444; border-radius: 50%; min-width: 2em; padding: 4px; text-align: center; }
.red-node { background: #d33; color: #fff; }
.black-node { background: #222; color: #fff; }
.highlight { outline: 3px solid #fc0; }
.node-children { display: flex; gap: 1em; }
.child-branch { min-width: 2em; }
.search-found { color: #070; }
.search-not-found { color: #a00; }
</style>
</head>
<body>
<div>
  <select id="variant">{{range .Variants}}<option value="{{.}}">{{.}}</option>{{end}}</select>
  <button id="create">Create tree</button>
  <div id="tree-list"></div>
</div>
<div>
  <div>Current tree: <span id="current-tree">{{.None}}</span></div>
  <input id="value" type="text">
  <button data-action="insert">Insert</button>
  <button data-action="remove">Remove</button>
  <button data-action="search">Search</button>
  <button id="delete">Delete tree</button>
  <div id="search-result"></div>
  <div id="visualization"></div>
</div>
<script>
(function() {
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  var send = function(msg) { ws.send(JSON.stringify(msg)); };
  var byId = function(id) { return document.getElementById(id); };
  ws.onmessage = function(e) {
    var ev = JSON.parse(e.data);
    switch (ev.kind) {
    case "list": byId("tree-list").innerHTML = ev.html; break;
    case "selected": byId("current-tree").textContent = ev.text; break;
    case "view": byId("visualization").innerHTML = ev.html; break;
    case "banner": byId("search-result").innerHTML = ev.html; break;
    case "warn": alert(ev.text); break;
    case "clear-input": byId("value").value = ""; break;
    }
  };
  byId("create").onclick = function() { send({action: "create", variant: byId("variant").value}); };
  byId("tree-list").onclick = function(e) {
    var item = e.target.closest(".tree-item");
    if (item) { send({action: "select", id: item.dataset.id}); }
  };
  document.querySelectorAll("button[data-action]").forEach(function(b) {
    b.onclick = function() { send({action: b.dataset.action, value: byId("value").value}); };
  });
  byId("delete").onclick = function() {
    if (byId("current-tree").textContent === {{.None}}) {
      send({action: "delete"});
      return;
    }
    if (confirm({{.Confirm}})) {
      send({action: "delete", confirmed: true});
    }
  };
})();
</script>
</body>
</html>
`))
