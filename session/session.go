// Package session keeps the client-side state of one viewer (the selected
// tree and the search banner) and re-renders the selected tree from a fresh
// service snapshot after every action.
package session

import (
	"strconv"
	"strings"

	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/render"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/pkg/errors"
)

// NoneSelected is shown in the current-tree field when nothing is selected.
const NoneSelected = "None"

// Service is the remote tree service.
type Service interface {
	ListTrees(ctx logger.ContextInterface) ([]api.TreeHandle, error)
	CreateTree(ctx logger.ContextInterface, variant snapshot.Variant) (api.TreeHandle, error)
	FetchTree(ctx logger.ContextInterface, id string) (api.TreeData, error)
	Insert(ctx logger.ContextInterface, id string, value int64) error
	Remove(ctx logger.ContextInterface, id string, value int64) error
	Search(ctx logger.ContextInterface, id string, value int64) (api.SearchResult, error)
	DeleteTree(ctx logger.ContextInterface, id string) error
}

// Display is the surface a session draws on. Every Show call replaces what
// was shown before.
type Display interface {
	ShowTreeList(handles []api.TreeHandle, selected string)
	ShowSelected(id string)
	ShowView(v render.View)
	// ShowBanner replaces the banner; nil removes it.
	ShowBanner(b *Banner)
	Warn(msg string)
	// Confirm asks the user to approve a destructive action.
	Confirm(msg string) bool
	ClearInput()
}

// Session is the state of one viewer. It is not safe for concurrent use;
// callers serialize actions.
type Session struct {
	svc     Service
	display Display

	selected string
	banner   *Banner
	// handles is the last loaded tree list, used to resolve variants.
	handles []api.TreeHandle
}

func New(svc Service, d Display) *Session {
	return &Session{svc: svc, display: d}
}

func (s *Session) Selected() string {
	return s.selected
}

// Banner returns a copy of the active banner, or nil.
func (s *Session) Banner() *Banner {
	if s.banner == nil {
		return nil
	}
	b := *s.banner
	return &b
}

func (s *Session) Handles() []api.TreeHandle {
	return append([]api.TreeHandle(nil), s.handles...)
}

// Start draws the initial, nothing-selected state and loads the tree list.
func (s *Session) Start(ctx logger.ContextInterface) error {
	s.display.ShowSelected(NoneSelected)
	s.display.ShowView(render.PlaceholderView(render.SelectTree))
	return s.ListTrees(ctx)
}

// ListTrees reloads the tree list. On failure the displayed list is kept.
func (s *Session) ListTrees(ctx logger.ContextInterface) error {
	handles, err := s.svc.ListTrees(ctx)
	if err != nil {
		ctx.Error("Error loading trees: %v", err)
		return errors.Wrap(err, "list trees")
	}
	s.handles = handles
	s.display.ShowTreeList(handles, s.selected)
	return nil
}

// CreateTree asks the service for a new tree, reloads the list and selects
// the new tree.
func (s *Session) CreateTree(ctx logger.ContextInterface, variant snapshot.Variant) (api.TreeHandle, error) {
	h, err := s.svc.CreateTree(ctx, variant)
	if err != nil {
		ctx.Error("Error creating tree: %v", err)
		return api.TreeHandle{}, errors.Wrap(err, "create tree")
	}
	ctx.Debug("created %s", h)
	// A failed reload is already logged; the new tree is still selected.
	_ = s.ListTrees(ctx)
	s.remember(h)
	return h, s.SelectTree(ctx, h.ID)
}

func (s *Session) remember(h api.TreeHandle) {
	for _, known := range s.handles {
		if known.ID == h.ID {
			return
		}
	}
	s.handles = append(s.handles, h)
}

// SelectTree makes id the selected tree and renders it without highlight.
// Ids missing from the last list are accepted; the fetch decides.
func (s *Session) SelectTree(ctx logger.ContextInterface, id string) error {
	s.selected = id
	s.display.ShowSelected(id)
	s.display.ShowTreeList(s.handles, id)
	return s.render(ctx, nil)
}

// render fetches the selected tree and replaces the visualization with it.
// Fetch and decode failures show the load-error placeholder.
func (s *Session) render(ctx logger.ContextInterface, target *int64) error {
	id := s.selected
	data, err := s.svc.FetchTree(ctx, id)
	if err != nil {
		ctx.Error("Error fetching tree data: %v", err)
		s.display.ShowView(render.PlaceholderView(render.LoadError))
		return errors.Wrapf(err, "fetch tree %s", id)
	}
	root, err := snapshot.Decode(data.Nodes, snapshot.Options{
		Variant: s.variantOf(id, data.Type),
		Target:  target,
	})
	if err != nil {
		ctx.Error("Error decoding tree %s: %v", id, err)
		s.display.ShowView(render.PlaceholderView(render.LoadError))
		return errors.Wrapf(err, "decode tree %s", id)
	}
	s.display.ShowView(render.TreeView(root))
	return nil
}

// variantOf prefers the type from the tree list; the inline type of the
// snapshot is the fallback.
func (s *Session) variantOf(id string, inline string) snapshot.Variant {
	for _, h := range s.handles {
		if h.ID == id {
			return snapshot.ParseVariant(string(h.Type))
		}
	}
	return snapshot.ParseVariant(inline)
}

// validate checks the preconditions shared by insert, remove and search and
// warns the user when they do not hold.
func (s *Session) validate(raw string) (string, int64, error) {
	if s.selected == "" {
		s.display.Warn(WarnSelectFirst)
		return "", 0, ErrNoSelection
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		s.display.Warn(WarnInvalidNumber)
		return "", 0, errors.Wrapf(ErrInvalidValue, "%q", raw)
	}
	return s.selected, v, nil
}

func (s *Session) mutate(ctx logger.ContextInterface, raw string, verb string,
	f func(ctx logger.ContextInterface, id string, value int64) error) error {
	id, v, err := s.validate(raw)
	if err != nil {
		return err
	}
	if err := f(ctx, id, v); err != nil {
		ctx.Error("Error %s node: %v", verb, err)
		return errors.Wrapf(err, "%s %d", verb, v)
	}
	s.display.ClearInput()
	return s.render(ctx, nil)
}

// Insert adds raw to the selected tree and re-renders it from the service.
func (s *Session) Insert(ctx logger.ContextInterface, raw string) error {
	return s.mutate(ctx, raw, "inserting", s.svc.Insert)
}

// Remove deletes raw from the selected tree and re-renders it from the
// service.
func (s *Session) Remove(ctx logger.ContextInterface, raw string) error {
	return s.mutate(ctx, raw, "removing", s.svc.Remove)
}

// Search looks raw up in the selected tree, re-renders the tree with matching
// nodes highlighted and replaces the banner with the result.
func (s *Session) Search(ctx logger.ContextInterface, raw string) (Banner, error) {
	id, v, err := s.validate(raw)
	if err != nil {
		return Banner{}, err
	}
	res, err := s.svc.Search(ctx, id, v)
	if err != nil {
		ctx.Error("Error searching node: %v", err)
		return Banner{}, errors.Wrapf(err, "search %d", v)
	}
	renderErr := s.render(ctx, snapshot.TargetOf(v))

	b := &Banner{Found: res.Found, Value: v, TreeModified: res.TreeModified}
	s.banner = b
	s.display.ShowBanner(s.Banner())
	return *b, renderErr
}

// DeleteTree deletes the selected tree once the user confirms, then returns
// to the nothing-selected state.
func (s *Session) DeleteTree(ctx logger.ContextInterface) error {
	if s.selected == "" {
		s.display.Warn(WarnSelectFirst)
		return ErrNoSelection
	}
	if !s.display.Confirm(ConfirmDelete) {
		return ErrNotConfirmed
	}
	id := s.selected
	if err := s.svc.DeleteTree(ctx, id); err != nil {
		ctx.Error("Error deleting tree: %v", err)
		return errors.Wrapf(err, "delete tree %s", id)
	}
	s.deselect()
	return s.ListTrees(ctx)
}

func (s *Session) deselect() {
	s.selected = ""
	s.display.ShowSelected(NoneSelected)
	s.display.ShowView(render.PlaceholderView(render.SelectTree))
}

// Refresh reloads the list and re-renders the selected tree. A selected tree
// that is no longer listed was deleted elsewhere and is deselected.
func (s *Session) Refresh(ctx logger.ContextInterface) error {
	if err := s.ListTrees(ctx); err != nil {
		return err
	}
	if s.selected == "" {
		return nil
	}
	for _, h := range s.handles {
		if h.ID == s.selected {
			return s.render(ctx, nil)
		}
	}
	ctx.Info("selected tree %s is gone", s.selected)
	s.deselect()
	s.display.ShowTreeList(s.handles, "")
	return nil
}
