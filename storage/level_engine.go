package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	treePrefix = []byte("t/")
	counterKey = []byte("m/next")
)

// LevelEngine implements Engine over a LevelDB database. Each tree is one
// record under treePrefix keyed by its big-endian sequence number, so
// iteration order is id order.
type LevelEngine struct {
	db *leveldb.DB
	// mu serializes read-modify-write of tree records and the counter.
	mu sync.Mutex
}

var _ Engine = (*LevelEngine)(nil)

func NewLevelEngine(db *leveldb.DB) *LevelEngine {
	return &LevelEngine{db: db}
}

func OpenLevelEngine(path string) (*LevelEngine, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %s", path)
	}
	return NewLevelEngine(db), nil
}

func (m *LevelEngine) Close() error {
	return m.db.Close()
}

// Compact rewrites the whole key space.
func (m *LevelEngine) Compact() error {
	return errors.Wrap(m.db.CompactRange(util.Range{}), "compact")
}

func treeKey(n uint64) []byte {
	k := make([]byte, len(treePrefix)+8)
	copy(k, treePrefix)
	binary.BigEndian.PutUint64(k[len(treePrefix):], n)
	return k
}

func (m *LevelEngine) get(n uint64) (storedTree, bool, error) {
	b, err := m.db.Get(treeKey(n), nil)
	switch err {
	case nil:
	case leveldb.ErrNotFound:
		return storedTree{}, false, nil
	default:
		return storedTree{}, false, errors.Wrap(err, "get")
	}
	var st storedTree
	if err := decode(&st, b); err != nil {
		return storedTree{}, false, errors.Wrap(err, "decode tree")
	}
	return st, true, nil
}

func (m *LevelEngine) CreateTree(ctx logger.ContextInterface, variant snapshot.Variant) (api.TreeHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var next uint64 = 1
	b, err := m.db.Get(counterKey, nil)
	switch err {
	case nil:
		if len(b) != 8 {
			return api.TreeHandle{}, fmt.Errorf("corrupt id counter of %d bytes", len(b))
		}
		next = binary.BigEndian.Uint64(b) + 1
	case leveldb.ErrNotFound:
	default:
		return api.TreeHandle{}, errors.Wrap(err, "read counter")
	}

	enc, err := encodeCanonical(storedTree{Type: string(variant), Nodes: []storedNode{}})
	if err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "encode tree")
	}
	counter := make([]byte, 8)
	binary.BigEndian.PutUint64(counter, next)

	batch := new(leveldb.Batch)
	batch.Put(counterKey, counter)
	batch.Put(treeKey(next), enc)
	if err := m.db.Write(batch, nil); err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "write")
	}

	h := api.TreeHandle{ID: formatID(next), Type: variant}
	ctx.Debug("LevelEngine: created %s", h)
	return h, nil
}

func (m *LevelEngine) ListTrees(ctx logger.ContextInterface) ([]api.TreeHandle, error) {
	iter := m.db.NewIterator(util.BytesPrefix(treePrefix), nil)
	defer iter.Release()

	ret := []api.TreeHandle{}
	for iter.Next() {
		k := iter.Key()
		if len(k) != len(treePrefix)+8 {
			ctx.Warning("LevelEngine: skipping odd key %x", k)
			continue
		}
		var st storedTree
		if err := decode(&st, iter.Value()); err != nil {
			return nil, errors.Wrapf(err, "decode %x", k)
		}
		n := binary.BigEndian.Uint64(k[len(treePrefix):])
		ret = append(ret, api.TreeHandle{ID: formatID(n), Type: snapshot.Variant(st.Type)})
	}
	return ret, errors.Wrap(iter.Error(), "iterate")
}

func (m *LevelEngine) LookupTree(ctx logger.ContextInterface, id string) (api.TreeHandle, []snapshot.NodeRecord, error) {
	n, ok := parseID(id)
	if !ok {
		return api.TreeHandle{}, nil, newTreeNotFoundError(id)
	}
	st, found, err := m.get(n)
	if err != nil {
		return api.TreeHandle{}, nil, errors.Wrapf(err, "lookup tree %s", id)
	}
	if !found {
		return api.TreeHandle{}, nil, newTreeNotFoundError(id)
	}
	return api.TreeHandle{ID: id, Type: snapshot.Variant(st.Type)}, fromStored(st.Nodes), nil
}

func (m *LevelEngine) StoreSnapshot(ctx logger.ContextInterface, id string, nodes []snapshot.NodeRecord) error {
	n, ok := parseID(id)
	if !ok {
		return newTreeNotFoundError(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st, found, err := m.get(n)
	if err != nil {
		return errors.Wrapf(err, "store snapshot %s", id)
	}
	if !found {
		return newTreeNotFoundError(id)
	}
	st.Nodes = toStored(nodes)
	enc, err := encodeCanonical(st)
	if err != nil {
		return errors.Wrap(err, "encode tree")
	}
	return errors.Wrapf(m.db.Put(treeKey(n), enc, nil), "store snapshot %s", id)
}

func (m *LevelEngine) DeleteTree(ctx logger.ContextInterface, id string) error {
	n, ok := parseID(id)
	if !ok {
		return newTreeNotFoundError(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ok, err := m.db.Has(treeKey(n), nil)
	if err != nil {
		return errors.Wrapf(err, "delete tree %s", id)
	}
	if !ok {
		return newTreeNotFoundError(id)
	}
	return errors.Wrapf(m.db.Delete(treeKey(n), nil), "delete tree %s", id)
}
