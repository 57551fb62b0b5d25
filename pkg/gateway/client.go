package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okanbasoglu/outreach-dispatch-service/environments"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/recorder"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/logger"
)

// Client talks to the device-side dispatch gateway: it asks the gateway to
// open dialer/SMS/WhatsApp actions on the operator's device and bridges
// audio capture requests to it.
type Client struct {
	httpClient *resty.Client
	gatewayURL string

	// Non-blocking actions (WhatsApp) reuse the gateway view opened by the
	// first trigger so each contact doesn't spawn a fresh window. viewGen
	// invalidates in-flight responses across a Reset: a trigger fired before
	// the reset must not repopulate the handle after it.
	mu      sync.Mutex
	viewID  string
	viewGen uint64
}

type triggerRequest struct {
	URL      string `json:"url"`
	Blocking bool   `json:"blocking"`
	ViewID   string `json:"viewId,omitempty"`
}

type triggerResponse struct {
	ViewID string `json:"viewId"`
}

type captureStartRequest struct {
	Target string `json:"target"`
}

type captureStopResponse struct {
	Audio      []byte `json:"audio"`
	MimeType   string `json:"mimeType"`
	DurationMS int64  `json:"durationMs"`
}

func NewClient(cfg environments.GatewayConfig) *Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("x-gw-auth-key", cfg.AuthKey)

	return &Client{
		httpClient: client,
		gatewayURL: cfg.URL,
	}
}

// Trigger asks the gateway to open the given action on the device. Blocking
// actions (calls, SMS composer) hand focus to the native app; non-blocking
// ones open in a reusable gateway view.
func (c *Client) Trigger(ctx context.Context, action domain.ActionDescriptor) error {
	payload := triggerRequest{
		URL:      action.URL,
		Blocking: action.Blocking,
	}
	var gen uint64
	if !action.Blocking {
		c.mu.Lock()
		payload.ViewID = c.viewID
		gen = c.viewGen
		c.mu.Unlock()
	}

	var triggerResp triggerResponse

	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&triggerResp).
		Post(c.gatewayURL + "/trigger")

	duration := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("failed to send trigger request: %w", err)
	}

	logger.Infof("Gateway trigger to %s completed in %v (status: %d)", c.gatewayURL, duration, resp.StatusCode())

	if resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("unexpected status code: %d (expected 202), body: %s", resp.StatusCode(), resp.String())
	}

	if !action.Blocking && triggerResp.ViewID != "" {
		c.mu.Lock()
		// A Reset may have happened while this trigger was in flight;
		// its view belongs to the old run then and must be dropped.
		if c.viewGen == gen {
			c.viewID = triggerResp.ViewID
		}
		c.mu.Unlock()
	}

	return nil
}

// Reset forgets the reusable gateway view. Called at the start of every run
// so a new run never lands in a stale window, including via trigger
// responses still in flight from the previous run.
func (c *Client) Reset() {
	c.mu.Lock()
	c.viewID = ""
	c.viewGen++
	c.mu.Unlock()
}

func (c *Client) StartCapture(ctx context.Context, target string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(captureStartRequest{Target: target}).
		Post(c.gatewayURL + "/capture/start")

	if err != nil {
		return fmt.Errorf("failed to send capture start request: %w", err)
	}

	if resp.StatusCode() == http.StatusForbidden {
		return recorder.ErrPermissionDenied
	}
	if resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("unexpected status code: %d (expected 202), body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

func (c *Client) StopCapture(ctx context.Context) (domain.AudioArtifact, error) {
	var stopResp captureStopResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&stopResp).
		Post(c.gatewayURL + "/capture/stop")

	if err != nil {
		return domain.AudioArtifact{}, fmt.Errorf("failed to send capture stop request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return domain.AudioArtifact{}, fmt.Errorf("unexpected status code: %d (expected 200), body: %s", resp.StatusCode(), resp.String())
	}

	return domain.AudioArtifact{
		Data:     stopResp.Audio,
		MimeType: stopResp.MimeType,
		Duration: time.Duration(stopResp.DurationMS) * time.Millisecond,
	}, nil
}

func (c *Client) GetURL() string {
	return c.gatewayURL
}
