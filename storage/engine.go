// Package storage keeps the trees of the reference tree service: their
// handles and their latest snapshot. Two engines are provided, one over SQL
// (sqlite or postgres) and one over LevelDB.
package storage

import (
	"strconv"

	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/pkg/errors"
)

// ErrTreeNotFound is the cause of every lookup or delete of an unknown id.
var ErrTreeNotFound = errors.New("tree not found")

func IsTreeNotFound(err error) bool {
	return errors.Cause(err) == ErrTreeNotFound
}

func newTreeNotFoundError(id string) error {
	return errors.Wrapf(ErrTreeNotFound, "id %q", id)
}

// Engine stores trees. Ids are assigned sequentially starting at 1 and are
// never reused. Implementations are safe for concurrent use.
type Engine interface {
	CreateTree(ctx logger.ContextInterface, variant snapshot.Variant) (api.TreeHandle, error)
	// ListTrees returns every tree in id order.
	ListTrees(ctx logger.ContextInterface) ([]api.TreeHandle, error)
	LookupTree(ctx logger.ContextInterface, id string) (api.TreeHandle, []snapshot.NodeRecord, error)
	StoreSnapshot(ctx logger.ContextInterface, id string, nodes []snapshot.NodeRecord) error
	DeleteTree(ctx logger.ContextInterface, id string) error
	Close() error
}

// parseID maps a handle id back to its sequence number. Anything that is
// not a positive decimal can never have been assigned.
func parseID(id string) (uint64, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

func formatID(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// storedNode is the on-disk form of a snapshot.NodeRecord. Colors are
// normalized to "red", "black" or "" for none.
type storedNode struct {
	_struct struct{} `codec:",toarray"` //nolint
	Key     int64
	Left    int
	Right   int
	Color   string
}

type storedTree struct {
	_struct struct{} `codec:",toarray"` //nolint
	Type    string
	Nodes   []storedNode
}

func toStored(nodes []snapshot.NodeRecord) []storedNode {
	ret := make([]storedNode, len(nodes))
	for i, rec := range nodes {
		ret[i] = storedNode{Key: rec.Key, Left: rec.Left, Right: rec.Right}
		if rec.HasColor() {
			ret[i].Color = snapshot.DecodeColor(rec.Color).String()
		}
	}
	return ret
}

func fromStored(nodes []storedNode) []snapshot.NodeRecord {
	if len(nodes) == 0 {
		return nil
	}
	ret := make([]snapshot.NodeRecord, len(nodes))
	for i, sn := range nodes {
		ret[i] = snapshot.NodeRecord{Key: sn.Key, Left: sn.Left, Right: sn.Right}
		if sn.Color != "" {
			ret[i].Color = sn.Color
		}
	}
	return ret
}

func encodeNodes(nodes []snapshot.NodeRecord) ([]byte, error) {
	b, err := encodeCanonical(toStored(nodes))
	return b, errors.Wrap(err, "encode snapshot")
}

func decodeNodes(b []byte) ([]snapshot.NodeRecord, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var sns []storedNode
	if err := decode(&sns, b); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return fromStored(sns), nil
}
