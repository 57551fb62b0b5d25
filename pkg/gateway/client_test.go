package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/okanbasoglu/outreach-dispatch-service/environments"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/recorder"
)

type triggerCapture struct {
	mu       sync.Mutex
	requests []triggerRequest
}

func (c *triggerCapture) record(r triggerRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, r)
}

func (c *triggerCapture) all() []triggerRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]triggerRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

func newTestClient(serverURL string) *Client {
	return NewClient(environments.GatewayConfig{
		URL:     serverURL,
		AuthKey: "test-key",
		Timeout: 2 * time.Second,
	})
}

func TestTrigger_ViewHandlePropagation(t *testing.T) {
	captured := &triggerCapture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-gw-auth-key"); got != "test-key" {
			t.Errorf("expected auth key header, got %q", got)
		}

		var req triggerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode trigger request: %v", err)
		}
		captured.record(req)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(triggerResponse{ViewID: "view-1"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	action := domain.ActionDescriptor{URL: "https://wa.me/905551234567?text=hi", Blocking: false}
	if err := c.Trigger(context.Background(), action); err != nil {
		t.Fatalf("first trigger returned error: %v", err)
	}
	if err := c.Trigger(context.Background(), action); err != nil {
		t.Fatalf("second trigger returned error: %v", err)
	}

	requests := captured.all()
	if len(requests) != 2 {
		t.Fatalf("expected 2 trigger requests, got %d", len(requests))
	}
	if requests[0].ViewID != "" {
		t.Errorf("first trigger should carry no view handle, got %q", requests[0].ViewID)
	}
	if requests[1].ViewID != "view-1" {
		t.Errorf("second trigger should reuse view-1, got %q", requests[1].ViewID)
	}
}

func TestTrigger_BlockingNeverCarriesViewHandle(t *testing.T) {
	captured := &triggerCapture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req triggerRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		captured.record(req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(triggerResponse{ViewID: "view-1"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	// Open a view via a non-blocking trigger first.
	if err := c.Trigger(context.Background(), domain.ActionDescriptor{URL: "https://wa.me/1?text=x", Blocking: false}); err != nil {
		t.Fatalf("non-blocking trigger returned error: %v", err)
	}

	// A call hands focus to the native dialer; no view handle applies.
	if err := c.Trigger(context.Background(), domain.ActionDescriptor{URL: "tel:+905551234567", Blocking: true}); err != nil {
		t.Fatalf("blocking trigger returned error: %v", err)
	}

	requests := captured.all()
	if len(requests) != 2 {
		t.Fatalf("expected 2 trigger requests, got %d", len(requests))
	}
	if requests[1].ViewID != "" {
		t.Errorf("blocking trigger should carry no view handle, got %q", requests[1].ViewID)
	}
}

func TestReset_DropsViewHandle(t *testing.T) {
	captured := &triggerCapture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req triggerRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		captured.record(req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(triggerResponse{ViewID: "view-1"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	action := domain.ActionDescriptor{URL: "https://wa.me/1?text=x", Blocking: false}
	if err := c.Trigger(context.Background(), action); err != nil {
		t.Fatalf("trigger returned error: %v", err)
	}

	c.Reset()

	if err := c.Trigger(context.Background(), action); err != nil {
		t.Fatalf("trigger after reset returned error: %v", err)
	}

	requests := captured.all()
	if len(requests) != 2 {
		t.Fatalf("expected 2 trigger requests, got %d", len(requests))
	}
	if requests[1].ViewID != "" {
		t.Errorf("trigger after reset should carry no view handle, got %q", requests[1].ViewID)
	}
}

// A trigger response that arrives after Reset belongs to the previous run and
// must not repopulate the view handle for the next one.
func TestTrigger_LateResponseAfterResetIsDiscarded(t *testing.T) {
	captured := &triggerCapture{}
	firstReceived := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req triggerRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		captured.record(req)

		viewID := "view-fresh"
		first.Do(func() {
			close(firstReceived)
			<-release
			viewID = "view-old"
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(triggerResponse{ViewID: viewID})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	action := domain.ActionDescriptor{URL: "https://wa.me/1?text=x", Blocking: false}

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.Trigger(context.Background(), action)
	}()

	// Reset while the first trigger's response is still held by the server.
	<-firstReceived
	c.Reset()
	close(release)

	if err := <-firstDone; err != nil {
		t.Fatalf("in-flight trigger returned error: %v", err)
	}

	if err := c.Trigger(context.Background(), action); err != nil {
		t.Fatalf("trigger after reset returned error: %v", err)
	}

	requests := captured.all()
	if len(requests) != 2 {
		t.Fatalf("expected 2 trigger requests, got %d", len(requests))
	}
	if requests[1].ViewID != "" {
		t.Errorf("view handle from before the reset was reused, got %q", requests[1].ViewID)
	}
}

func TestTrigger_UnexpectedStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	err := c.Trigger(context.Background(), domain.ActionDescriptor{URL: "tel:+905551234567", Blocking: true})
	if err == nil {
		t.Fatalf("expected error for non-202 response")
	}
}

func TestStartCapture_PermissionDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	err := c.StartCapture(context.Background(), "+905551234567")
	if !errors.Is(err, recorder.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestStopCapture_ReturnsArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(captureStopResponse{
			Audio:      []byte("audio-bytes"),
			MimeType:   "audio/ogg",
			DurationMS: 4500,
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	artifact, err := c.StopCapture(context.Background())
	if err != nil {
		t.Fatalf("StopCapture returned error: %v", err)
	}

	if string(artifact.Data) != "audio-bytes" {
		t.Errorf("unexpected audio payload: %q", artifact.Data)
	}
	if artifact.MimeType != "audio/ogg" {
		t.Errorf("expected mime type audio/ogg, got %q", artifact.MimeType)
	}
	if artifact.Duration != 4500*time.Millisecond {
		t.Errorf("expected duration 4.5s, got %v", artifact.Duration)
	}
}
