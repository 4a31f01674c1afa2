package viewer

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/render"
	"github.com/mvkdcrypto/treeview/session"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/pkg/errors"
)

// conn is one open page. The reader goroutine only decodes requests and
// queues them; run executes them one at a time and is the only writer to
// the socket, so a page sees its updates in the order it asked for them.
type conn struct {
	v      *Viewer
	ws     *websocket.Conn
	ctx    logger.ContextInterface
	cancel context.CancelFunc

	actions chan Request
	// refresh coalesces "trees changed" notices from other pages.
	refresh chan struct{}

	sess *session.Session
	// confirmed is the Confirmed flag of the request being executed.
	confirmed bool
	writeErr  error
}

var _ session.Display = (*conn)(nil)

func newConn(v *Viewer, ws *websocket.Conn, ctx logger.ContextInterface, cancel context.CancelFunc) *conn {
	c := &conn{
		v:       v,
		ws:      ws,
		ctx:     ctx,
		cancel:  cancel,
		actions: make(chan Request, v.cfg.QueueDepth),
		refresh: make(chan struct{}, 1),
	}
	c.sess = session.New(v.svc, c)
	return c
}

// notify asks the page to refresh once it is idle. It never blocks.
func (c *conn) notify() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

func (c *conn) readLoop() {
	defer close(c.actions)
	for {
		_, b, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.ctx.Warning("read: %v", err)
			}
			c.cancel()
			return
		}
		var req Request
		if err := api.Decode(&req, b); err != nil {
			c.ctx.Warning("dropping undecodable request: %v", err)
			continue
		}
		select {
		case c.actions <- req:
		case <-c.ctx.Ctx().Done():
			return
		}
	}
}

func (c *conn) run() {
	if err := c.sess.Start(c.ctx); err != nil {
		c.ctx.Debug("start: %v", err)
	}
	for {
		select {
		case <-c.ctx.Ctx().Done():
			return
		case req, ok := <-c.actions:
			if !ok {
				return
			}
			if c.handle(req) {
				c.v.broadcast(c)
			}
		case <-c.refresh:
			if err := c.sess.Refresh(c.ctx); err != nil {
				c.ctx.Debug("refresh: %v", err)
			}
		}
		if c.writeErr != nil {
			c.ctx.Info("closing after write failure: %v", c.writeErr)
			c.cancel()
			return
		}
	}
}

// handle executes req and reports whether it changed any tree. Failures
// are already shown to the user by the session.
func (c *conn) handle(req Request) bool {
	c.confirmed = req.Confirmed
	defer func() { c.confirmed = false }()

	var err error
	changed := false
	switch req.Action {
	case ActionList:
		err = c.sess.ListTrees(c.ctx)
	case ActionCreate:
		// A render failure after a successful create still changed the list.
		var h api.TreeHandle
		h, err = c.sess.CreateTree(c.ctx, snapshot.ParseVariant(req.Variant))
		changed = h.ID != ""
	case ActionSelect:
		err = c.sess.SelectTree(c.ctx, req.ID)
	case ActionInsert:
		err = c.sess.Insert(c.ctx, req.Value)
		changed = err == nil
	case ActionRemove:
		err = c.sess.Remove(c.ctx, req.Value)
		changed = err == nil
	case ActionSearch:
		var b session.Banner
		b, err = c.sess.Search(c.ctx, req.Value)
		changed = b.TreeModified
	case ActionDelete:
		err = c.sess.DeleteTree(c.ctx)
		changed = err == nil
	default:
		c.ctx.Warning("unknown action %q", req.Action)
		return false
	}
	if err != nil {
		c.ctx.Debug("%s: %v", req.Action, err)
	}
	return changed
}

func (c *conn) send(ev Event) {
	if c.writeErr != nil {
		return
	}
	b, err := api.Encode(ev)
	if err != nil {
		c.writeErr = err
		return
	}
	c.writeErr = errors.Wrapf(c.ws.WriteMessage(websocket.TextMessage, b), "write %s", ev.Kind)
}

func (c *conn) sendHTML(kind string, html string, err error) {
	if err != nil {
		c.ctx.Error("render %s: %v", kind, err)
		return
	}
	c.send(Event{Kind: kind, HTML: html})
}

func (c *conn) ShowTreeList(handles []api.TreeHandle, selected string) {
	html, err := render.ListHTML(handles, selected)
	c.sendHTML(KindList, html, err)
}

func (c *conn) ShowSelected(id string) {
	c.send(Event{Kind: KindSelected, Text: id})
}

func (c *conn) ShowView(v render.View) {
	html, err := render.ViewHTML(v)
	c.sendHTML(KindView, html, err)
}

func (c *conn) ShowBanner(b *session.Banner) {
	if b == nil {
		c.send(Event{Kind: KindBanner})
		return
	}
	html, err := render.BannerHTML(b.Found, b.Text())
	c.sendHTML(KindBanner, html, err)
}

func (c *conn) Warn(msg string) {
	c.send(Event{Kind: KindWarn, Text: msg})
}

// Confirm trusts the page: it prompts the user before sending a delete.
func (c *conn) Confirm(msg string) bool {
	return c.confirmed
}

func (c *conn) ClearInput() {
	c.send(Event{Kind: KindClearInput})
}
