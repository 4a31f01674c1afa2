package snapshot

// Absent is the child reference meaning "no child".
const Absent = -1

// NodeRecord is one entry of a flat snapshot. Left and Right index into the
// same snapshot, or are Absent. Index 0 is the root.
type NodeRecord struct {
	Key   int64       `codec:"key"`
	Left  int         `codec:"left"`
	Right int         `codec:"right"`
	Color interface{} `codec:"color,omitempty"`
}

// Leaf is a record with no children.
func Leaf(key int64) NodeRecord {
	return NodeRecord{Key: key, Left: Absent, Right: Absent}
}

func (r NodeRecord) HasColor() bool {
	return r.Color != nil
}
