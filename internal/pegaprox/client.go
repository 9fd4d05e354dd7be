// Package pegaprox implements the HTTP client for the PegaProx REST API,
// the upstream multi-cluster Proxmox management service.
package pegaprox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/proxasaurus/proxasaurus/internal/common"
)

// maxResponseSize caps the response body to prevent OOM from unexpectedly
// large responses.
const maxResponseSize = 50 << 20 // 50MB

// Request describes one upstream HTTP call. The path must already have its
// placeholders substituted and be query-string free; query parameters go in
// Query.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

// Response is the decoded upstream reply. Data holds the parsed JSON value,
// or the raw body text when the body is not valid JSON.
type Response struct {
	Status int
	Data   interface{}
	Raw    []byte
}

// FaultKind distinguishes transport-level failures reaching the upstream.
type FaultKind string

const (
	FaultConnectionFailed  FaultKind = "connection_failed"
	FaultTimeout           FaultKind = "timeout"
	FaultMalformedResponse FaultKind = "malformed_response"
)

// Fault is a transport-level failure: the upstream was never reached, timed
// out, or returned an unreadable response. HTTP error statuses are not
// faults; they come back as a Response.
type Fault struct {
	Kind FaultKind
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Client issues authenticated requests against the PegaProx API. One Client
// is shared by all concurrent dispatches; it holds no per-call state.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client for the given base URL and bearer token.
// The timeout bounds each individual request.
func NewClient(baseURL, token string, timeout time.Duration, logger *common.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes one request against the PegaProx API. Network failures,
// timeouts, and unreadable bodies return a *Fault; any HTTP status,
// including errors, returns a Response.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	url := c.baseURL + r.Path
	if r.Query != "" {
		url += "?" + r.Query
	}

	var bodyReader io.Reader
	if r.Body != nil {
		jsonData, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("method", r.Method).Str("path", r.Path).Msg("upstream request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		fault := classifyTransportError(err)
		c.logger.Error().
			Str("method", r.Method).
			Str("path", r.Path).
			Int64("duration_ms", duration.Milliseconds()).
			Str("fault", string(fault.Kind)).
			Str("error", err.Error()).
			Msg("upstream request failed")
		return nil, fault
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &Fault{Kind: FaultMalformedResponse, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("upstream response")

	return &Response{
		Status: resp.StatusCode,
		Data:   decodeBody(resp.StatusCode, raw),
		Raw:    raw,
	}, nil
}

// classifyTransportError maps an http.Client error to a Fault kind.
func classifyTransportError(err error) *Fault {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Fault{Kind: FaultTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Fault{Kind: FaultTimeout, Err: err}
	}
	return &Fault{Kind: FaultConnectionFailed, Err: err}
}

// decodeBody parses the response body as JSON, falling back to raw text.
// 204 and empty bodies decode to an empty object.
func decodeBody(status int, raw []byte) interface{} {
	if status == http.StatusNoContent || len(raw) == 0 {
		return map[string]interface{}{}
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}
	return data
}

// OK reports whether the response carries a success status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// ErrorMessage extracts a human-readable message from an error response.
// A 503 carrying {"offline": true, "cluster": ...} means the target cluster
// is unreachable from PegaProx; other error bodies expose the message under
// "message" or "error" keys, falling back to raw text, then status text.
func (r *Response) ErrorMessage() string {
	if body, ok := r.Data.(map[string]interface{}); ok {
		if r.Status == http.StatusServiceUnavailable {
			if offline, _ := body["offline"].(bool); offline {
				cluster, _ := body["cluster"].(string)
				if cluster == "" {
					cluster = "unknown"
				}
				return fmt.Sprintf("cluster %q is offline or unreachable", cluster)
			}
		}
		if msg, _ := body["message"].(string); msg != "" {
			return msg
		}
		if msg, _ := body["error"].(string); msg != "" {
			return msg
		}
	}
	if text := strings.TrimSpace(string(r.Raw)); text != "" && len(text) <= 512 {
		return text
	}
	return http.StatusText(r.Status)
}
