// Package client talks to the tree service over its JSON/HTTP contract.
package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/session"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/pkg/errors"
)

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tree service: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("tree service: %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	serr, ok := errors.Cause(err).(*StatusError)
	return ok && serr.Code == http.StatusNotFound
}

type Client struct {
	cfg  Config
	http *http.Client
}

var _ session.Service = (*Client)(nil)

func New(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// NewWithHTTPClient lets tests and embedders supply the transport.
func NewWithHTTPClient(cfg Config, hc *http.Client) *Client {
	return &Client{cfg: cfg, http: hc}
}

func (c *Client) url(elems ...string) string {
	escaped := make([]string, len(elems))
	for i, e := range elems {
		escaped[i] = url.PathEscape(e)
	}
	u := *c.cfg.BaseURL
	base := strings.TrimSuffix(u.Path, "/")
	u.Path = base + "/" + strings.Join(elems, "/")
	u.RawPath = base + "/" + strings.Join(escaped, "/")
	return u.String()
}

func (c *Client) do(ctx logger.ContextInterface, method string, target string, in interface{}, out interface{}) error {
	var body io.Reader
	if in != nil {
		enc, err := api.Encode(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(enc)
	}
	req, err := http.NewRequestWithContext(ctx.Ctx(), method, target, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	ctx.Debug("%s %s", method, target)
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er api.ErrorResponse
		// The error body is best effort; the status code is what counts.
		_ = api.DecodeFrom(&er, resp.Body)
		return &StatusError{Code: resp.StatusCode, Message: er.Error}
	}
	if out == nil {
		return nil
	}
	return errors.Wrapf(api.DecodeFrom(out, resp.Body), "%s %s", method, target)
}

func (c *Client) ListTrees(ctx logger.ContextInterface) ([]api.TreeHandle, error) {
	var ret []api.TreeHandle
	if err := c.do(ctx, http.MethodGet, c.url("trees"), nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Client) CreateTree(ctx logger.ContextInterface, variant snapshot.Variant) (api.TreeHandle, error) {
	var ret api.TreeHandle
	err := c.do(ctx, http.MethodPost, c.url("trees"), api.CreateRequest{Type: string(variant)}, &ret)
	if err != nil {
		return api.TreeHandle{}, err
	}
	if ret.ID == "" {
		return api.TreeHandle{}, errors.New("tree service returned no id")
	}
	if ret.Type == "" {
		ret.Type = variant
	}
	return ret, nil
}

func (c *Client) FetchTree(ctx logger.ContextInterface, id string) (api.TreeData, error) {
	var ret api.TreeData
	if err := c.do(ctx, http.MethodGet, c.url("trees", id), nil, &ret); err != nil {
		return api.TreeData{}, err
	}
	return ret, nil
}

func (c *Client) Insert(ctx logger.ContextInterface, id string, value int64) error {
	return c.do(ctx, http.MethodPost, c.url("trees", id, "insert"), api.NewValueRequest(value), &api.Ack{})
}

func (c *Client) Remove(ctx logger.ContextInterface, id string, value int64) error {
	return c.do(ctx, http.MethodPost, c.url("trees", id, "remove"), api.NewValueRequest(value), &api.Ack{})
}

func (c *Client) Search(ctx logger.ContextInterface, id string, value int64) (api.SearchResult, error) {
	var ret api.SearchResult
	err := c.do(ctx, http.MethodPost, c.url("trees", id, "search"), api.NewValueRequest(value), &ret)
	if err != nil {
		return api.SearchResult{}, err
	}
	return ret, nil
}

func (c *Client) DeleteTree(ctx logger.ContextInterface, id string) error {
	return c.do(ctx, http.MethodDelete, c.url("trees", id), nil, &api.Ack{})
}
