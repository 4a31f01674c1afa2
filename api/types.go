// Package api holds the JSON shapes exchanged with the tree service.
package api

import "github.com/mvkdcrypto/treeview/snapshot"

// TreeHandle names one tree hosted by the service.
type TreeHandle struct {
	ID   string           `codec:"id"`
	Type snapshot.Variant `codec:"type"`
}

func (h TreeHandle) String() string {
	return string(h.Type) + " (" + h.ID + ")"
}

// TreeData is the body of GET /trees/{id}. Type is optional and may carry a
// "_tree" suffix.
type TreeData struct {
	Type  string                `codec:"type,omitempty"`
	Nodes []snapshot.NodeRecord `codec:"nodes"`
}

type CreateRequest struct {
	Type string `codec:"type"`
}

// ValueRequest is the body of insert, remove and search. Value is a pointer
// so a missing value can be told apart from zero.
type ValueRequest struct {
	Value *int64 `codec:"value"`
}

func NewValueRequest(v int64) ValueRequest {
	return ValueRequest{Value: &v}
}

type SearchResult struct {
	Found        bool `codec:"found"`
	TreeModified bool `codec:"treeModified"`
}

type Ack struct {
	Success bool `codec:"success"`
}

type ErrorResponse struct {
	Error string `codec:"error"`
}
