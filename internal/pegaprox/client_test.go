package pegaprox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/proxasaurus/proxasaurus/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, "test-token", timeout, common.NewSilentLogger()), ts
}

func TestDoSetsAuthAndHeaders(t *testing.T) {
	var gotAuth, gotContentType string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}, 5*time.Second)

	resp, err := c.Do(context.Background(), Request{Method: "POST", Path: "/api/clusters", Body: map[string]interface{}{"name": "x"}})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !resp.OK() {
		t.Errorf("status = %d, want 2xx", resp.Status)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
}

func TestDoAppendsQuery(t *testing.T) {
	var gotURL string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`[]`))
	}, 5*time.Second)

	if _, err := c.Do(context.Background(), Request{Method: "GET", Path: "/api/clusters/prod/vms", Query: "node=pve1"}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotURL != "/api/clusters/prod/vms?node=pve1" {
		t.Errorf("request URL = %q", gotURL)
	}
}

func TestDecodeBodyFallsBackToRawText(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}, 5*time.Second)

	resp, err := c.Do(context.Background(), Request{Method: "GET", Path: "/api/summary"})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if resp.Data != "not json at all" {
		t.Errorf("Data = %v, want raw text fallback", resp.Data)
	}
}

func TestDecodeBodyEmptyResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, 5*time.Second)

	resp, err := c.Do(context.Background(), Request{Method: "DELETE", Path: "/api/alerts/a1"})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	m, ok := resp.Data.(map[string]interface{})
	if !ok || len(m) != 0 {
		t.Errorf("Data = %#v, want empty object", resp.Data)
	}
}

func TestErrorStatusIsResponseNotFault(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "node exploded"})
	}, 5*time.Second)

	resp, err := c.Do(context.Background(), Request{Method: "GET", Path: "/api/clusters"})
	if err != nil {
		t.Fatalf("error status must not be a fault, got %v", err)
	}
	if resp.OK() {
		t.Error("OK() = true for a 500")
	}
	if got := resp.ErrorMessage(); got != "node exploded" {
		t.Errorf("ErrorMessage() = %q", got)
	}
}

func TestErrorMessageOfflineCluster(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{"offline": true, "cluster": "lab"})
	}, 5*time.Second)

	resp, err := c.Do(context.Background(), Request{Method: "GET", Path: "/api/clusters/lab/nodes"})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if got, want := resp.ErrorMessage(), `cluster "lab" is offline or unreachable`; got != want {
		t.Errorf("ErrorMessage() = %q, want %q", got, want)
	}
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	r := &Response{Status: http.StatusBadGateway}
	if got := r.ErrorMessage(); got != "Bad Gateway" {
		t.Errorf("ErrorMessage() = %q", got)
	}
}

func TestDoTimeoutFault(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}, 20*time.Millisecond)

	start := time.Now()
	_, err := c.Do(context.Background(), Request{Method: "GET", Path: "/api/summary"})
	if err == nil {
		t.Fatal("expected a fault")
	}
	fault, ok := err.(*Fault)
	if !ok {
		t.Fatalf("error is %T, want *Fault", err)
	}
	if fault.Kind != FaultTimeout {
		t.Errorf("fault kind = %q, want %q", fault.Kind, FaultTimeout)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestDoConnectionRefusedFault(t *testing.T) {
	// a server that is immediately closed leaves a port nothing listens on
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(url, "test-token", time.Second, common.NewSilentLogger())
	_, err := c.Do(context.Background(), Request{Method: "GET", Path: "/api/clusters"})
	if err == nil {
		t.Fatal("expected a fault")
	}
	fault, ok := err.(*Fault)
	if !ok {
		t.Fatalf("error is %T, want *Fault", err)
	}
	if fault.Kind != FaultConnectionFailed {
		t.Errorf("fault kind = %q, want %q", fault.Kind, FaultConnectionFailed)
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:5000/", "tok", time.Second, common.NewSilentLogger())
	if c.BaseURL() != "http://localhost:5000" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
}
