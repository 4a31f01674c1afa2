// Package service is the reference tree service: it hosts binary, red-black
// and splay trees behind the JSON/HTTP contract the viewer consumes, and
// persists every tree through a storage.Engine.
package service

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/mvkdcrypto/treeview/storage"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Manager owns the live trees. Every mutation is written through to the
// engine before it is acknowledged; the cache only saves rebuilding trees
// from their snapshots.
type Manager struct {
	cfg     Config
	eng     storage.Engine
	metrics *Metrics

	// mu serializes all tree operations, so a tree is never mutated and
	// snapshotted concurrently and the cache agrees with storage.
	mu   sync.Mutex
	live *lru.Cache[string, *liveTree]
}

type liveTree struct {
	handle api.TreeHandle
	tree   Tree
}

func NewManager(cfg Config, eng storage.Engine, metrics *Metrics) (*Manager, error) {
	live, err := lru.New[string, *liveTree](cfg.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "tree cache")
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Manager{cfg: cfg, eng: eng, metrics: metrics, live: live}, nil
}

func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Warm loads up to CacheSize stored trees into the cache in parallel.
func (m *Manager) Warm(ctx logger.ContextInterface) error {
	handles, err := m.eng.ListTrees(ctx)
	if err != nil {
		return err
	}
	m.metrics.trees.Set(float64(len(handles)))
	if len(handles) > m.cfg.CacheSize {
		handles = handles[len(handles)-m.cfg.CacheSize:]
	}

	loaded := make([]*liveTree, len(handles))
	eg, egCtx := errgroup.WithContext(ctx.Ctx())
	eg.SetLimit(8)
	lctx := ctx.UpdateContextToLoggerContext(egCtx)
	for i, h := range handles {
		i, h := i, h
		eg.Go(func() error {
			lt, err := m.load(lctx, h.ID)
			if err != nil {
				return errors.Wrapf(err, "warm %s", h)
			}
			loaded[i] = lt
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, lt := range loaded {
		m.live.Add(lt.handle.ID, lt)
	}
	ctx.Info("warmed %d trees", len(loaded))
	return nil
}

func (m *Manager) load(ctx logger.ContextInterface, id string) (*liveTree, error) {
	h, nodes, err := m.eng.LookupTree(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := restoreTree(h.Type, nodes)
	if err != nil {
		return nil, errors.Wrapf(err, "restore %s", h)
	}
	return &liveTree{handle: h, tree: t}, nil
}

// get returns the live tree for id, loading it on a cache miss. Callers
// hold mu.
func (m *Manager) get(ctx logger.ContextInterface, id string) (*liveTree, error) {
	if lt, ok := m.live.Get(id); ok {
		m.metrics.cacheHits.Inc()
		return lt, nil
	}
	m.metrics.cacheMisses.Inc()
	lt, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	m.live.Add(id, lt)
	return lt, nil
}

// CreateTree starts an empty tree of the given type tag.
func (m *Manager) CreateTree(ctx logger.ContextInterface, typ string) (api.TreeHandle, error) {
	v := snapshot.ParseVariant(typ)
	t, err := newTree(v)
	if err != nil {
		m.metrics.observe(opCreate, err)
		return api.TreeHandle{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.eng.CreateTree(ctx, v)
	m.metrics.observe(opCreate, err)
	if err != nil {
		return api.TreeHandle{}, err
	}
	m.live.Add(h.ID, &liveTree{handle: h, tree: t})
	m.metrics.trees.Inc()
	ctx.Info("created tree %s", h)
	return h, nil
}

func (m *Manager) ListTrees(ctx logger.ContextInterface) ([]api.TreeHandle, error) {
	handles, err := m.eng.ListTrees(ctx)
	m.metrics.observe(opList, err)
	return handles, err
}

// Handle resolves id to its handle.
func (m *Manager) Handle(ctx logger.ContextInterface, id string) (api.TreeHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lt, err := m.get(ctx, id)
	if err != nil {
		return api.TreeHandle{}, err
	}
	return lt.handle, nil
}

// Snapshot returns the current snapshot of tree id.
func (m *Manager) Snapshot(ctx logger.ContextInterface, id string) (api.TreeData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lt, err := m.get(ctx, id)
	m.metrics.observe(opFetch, err)
	if err != nil {
		return api.TreeData{}, err
	}
	return api.TreeData{
		Type:  inlineType(lt.handle.Type),
		Nodes: lt.tree.Snapshot(),
	}, nil
}

// mutate applies f to tree id and persists the result. The cached tree is
// dropped when persisting fails so the next use reloads the stored state.
func (m *Manager) mutate(ctx logger.ContextInterface, id string, f func(t Tree) bool) error {
	lt, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	if !f(lt.tree) {
		return nil
	}
	if err := m.eng.StoreSnapshot(ctx, id, lt.tree.Snapshot()); err != nil {
		m.live.Remove(id)
		return err
	}
	return nil
}

func (m *Manager) Insert(ctx logger.ContextInterface, id string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.mutate(ctx, id, func(t Tree) bool {
		t.Insert(value)
		return true
	})
	m.metrics.observe(opInsert, err)
	return err
}

func (m *Manager) Remove(ctx logger.ContextInterface, id string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.mutate(ctx, id, func(t Tree) bool {
		t.Remove(value)
		return true
	})
	m.metrics.observe(opRemove, err)
	return err
}

// Search looks value up. Splay trees reorganize on a hit, which is
// persisted and reported as TreeModified.
func (m *Manager) Search(ctx logger.ContextInterface, id string, value int64) (api.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res api.SearchResult
	err := m.mutate(ctx, id, func(t Tree) bool {
		res.Found, res.TreeModified = t.Lookup(value)
		return res.TreeModified
	})
	m.metrics.observe(opSearch, err)
	if err != nil {
		return api.SearchResult{}, err
	}
	return res, nil
}

func (m *Manager) DeleteTree(ctx logger.ContextInterface, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.eng.DeleteTree(ctx, id)
	m.metrics.observe(opDelete, err)
	if err != nil {
		return err
	}
	m.live.Remove(id)
	m.metrics.trees.Dec()
	ctx.Info("deleted tree %s", id)
	return nil
}
