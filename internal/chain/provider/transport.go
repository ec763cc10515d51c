package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// Transport carries one request/response round trip to a node. Implementors
// must not retry; retry policy belongs to the caller.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// defaultRequestTimeout bounds a single round trip when the caller's context
// carries no deadline of its own.
const defaultRequestTimeout = 30 * time.Second

// HTTPTransport sends JSON-RPC requests over HTTP(S) to a fixed endpoint.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTransport creates a transport for the given node endpoint.
func NewHTTPTransport(endpoint string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPTransport{endpoint: endpoint, client: client}
}

// Endpoint returns the node URL the transport talks to.
func (t *HTTPTransport) Endpoint() string { return t.endpoint }

// Do performs a single round trip. Transport-level failures, including
// non-2xx status codes, surface as TransportError; a body that is not a
// JSON-RPC response surfaces as DecodeError.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal rpc request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: req.Method, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: req.Method, Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(httpResp.Body, 4096)) //nolint:errcheck
		return nil, &TransportError{Op: req.Method, Err: fmt.Errorf("unexpected status %s", httpResp.Status)}
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Op: req.Method, Err: err}
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &DecodeError{Method: req.Method, Err: err}
	}

	return &resp, nil
}
