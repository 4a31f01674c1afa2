package service

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/mvkdcrypto/treeview/storage"
	"github.com/pkg/errors"
)

// Server exposes a Manager over HTTP.
type Server struct {
	m   *Manager
	ctx logger.ContextInterface
}

func NewServer(ctx logger.ContextInterface, m *Manager) *Server {
	return &Server{m: m, ctx: ctx}
}

// Route registers the tree contract and /metrics on router.
func (s *Server) Route(router *mux.Router) {
	router.HandleFunc("/trees", s.listTrees).Methods(http.MethodGet)
	router.HandleFunc("/trees", s.createTree).Methods(http.MethodPost)
	router.HandleFunc("/trees/{id}", s.fetchTree).Methods(http.MethodGet)
	router.HandleFunc("/trees/{id}", s.deleteTree).Methods(http.MethodDelete)
	router.HandleFunc("/trees/{id}/insert", s.valueOp(s.insert)).Methods(http.MethodPost)
	router.HandleFunc("/trees/{id}/remove", s.valueOp(s.remove)).Methods(http.MethodPost)
	router.HandleFunc("/trees/{id}/search", s.valueOp(s.search)).Methods(http.MethodPost)
	router.Path("/metrics").Handler(s.m.Metrics().Handler())
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.Route(router)
	return router
}

func (s *Server) requestContext(r *http.Request) logger.ContextInterface {
	return s.ctx.UpdateContextToLoggerContext(r.Context())
}

func (s *Server) writeJSON(ctx logger.ContextInterface, w http.ResponseWriter, code int, o interface{}) {
	b, err := api.Encode(o)
	if err != nil {
		ctx.Error("encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(b); err != nil {
		ctx.Debug("write response: %v", err)
	}
}

func (s *Server) writeError(ctx logger.ContextInterface, w http.ResponseWriter, code int, msg string) {
	s.writeJSON(ctx, w, code, api.ErrorResponse{Error: msg})
}

// fail maps err onto the contract's status codes.
func (s *Server) fail(ctx logger.ContextInterface, w http.ResponseWriter, err error) {
	switch {
	case storage.IsTreeNotFound(err):
		s.writeError(ctx, w, http.StatusNotFound, "Tree not found")
	case errors.Cause(err) == ErrUnsupportedType:
		s.writeError(ctx, w, http.StatusBadRequest, err.Error())
	default:
		ctx.Error("request failed: %v", err)
		s.writeError(ctx, w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) listTrees(w http.ResponseWriter, r *http.Request) {
	ctx := s.requestContext(r)
	handles, err := s.m.ListTrees(ctx)
	if err != nil {
		s.fail(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, handles)
}

func (s *Server) createTree(w http.ResponseWriter, r *http.Request) {
	ctx := s.requestContext(r)
	var req api.CreateRequest
	if err := api.DecodeFrom(&req, r.Body); err != nil {
		s.writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" {
		s.writeError(ctx, w, http.StatusBadRequest, "Tree type is required")
		return
	}
	h, err := s.m.CreateTree(ctx, req.Type)
	if errors.Cause(err) == ErrUnsupportedType {
		s.writeError(ctx, w, http.StatusBadRequest, fmt.Sprintf("Unsupported tree type: %s", req.Type))
		return
	}
	if err != nil {
		s.fail(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, h)
}

func (s *Server) fetchTree(w http.ResponseWriter, r *http.Request) {
	ctx := s.requestContext(r)
	data, err := s.m.Snapshot(ctx, mux.Vars(r)["id"])
	if err != nil {
		s.fail(ctx, w, err)
		return
	}
	if data.Nodes == nil {
		data.Nodes = []snapshot.NodeRecord{}
	}
	s.writeJSON(ctx, w, http.StatusOK, data)
}

func (s *Server) deleteTree(w http.ResponseWriter, r *http.Request) {
	ctx := s.requestContext(r)
	if err := s.m.DeleteTree(ctx, mux.Vars(r)["id"]); err != nil {
		s.fail(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, api.Ack{Success: true})
}

type valueHandler func(ctx logger.ContextInterface, id string, value int64) (interface{}, error)

// valueOp decodes {value} and runs h. The tree is resolved before the body
// is looked at, so unknown trees answer 404 even for bad bodies.
func (s *Server) valueOp(h valueHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := s.requestContext(r)
		id := mux.Vars(r)["id"]
		if _, err := s.m.Handle(ctx, id); err != nil {
			s.fail(ctx, w, err)
			return
		}
		var req api.ValueRequest
		if err := api.DecodeFrom(&req, r.Body); err != nil {
			s.writeError(ctx, w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Value == nil {
			s.writeError(ctx, w, http.StatusBadRequest, "Value is required")
			return
		}
		out, err := h(ctx, id, *req.Value)
		if err != nil {
			s.fail(ctx, w, err)
			return
		}
		s.writeJSON(ctx, w, http.StatusOK, out)
	}
}

func (s *Server) insert(ctx logger.ContextInterface, id string, value int64) (interface{}, error) {
	return api.Ack{Success: true}, s.m.Insert(ctx, id, value)
}

func (s *Server) remove(ctx logger.ContextInterface, id string, value int64) (interface{}, error) {
	return api.Ack{Success: true}, s.m.Remove(ctx, id, value)
}

func (s *Server) search(ctx logger.ContextInterface, id string, value int64) (interface{}, error) {
	return s.m.Search(ctx, id, value)
}
