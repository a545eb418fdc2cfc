// Package delivery transmits tracker records to the logging endpoint.
// Delivery is best effort: failures are logged and swallowed, never retried
// within the same page life.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/use-agent/mindtrace/config"
	"github.com/use-agent/mindtrace/models"
)

// queueCapacity bounds the durable-channel backlog. A full queue drops the
// record (best-effort contract) rather than blocking the caller.
const queueCapacity = 16

// Client delivers JSON payloads to the single fixed endpoint. The durable
// channel is a detached background worker: Send returns once the record is
// queued, so a caller about to be torn down by navigation never waits on the
// network. The normal channel is an awaited request/response POST.
type Client struct {
	endpoint string
	client   *http.Client
	cfg      config.EndpointConfig

	queue chan []byte
	wg    sync.WaitGroup
}

// New creates a Client and starts the durable-channel worker.
func New(cfg config.EndpointConfig) *Client {
	c := &Client{
		endpoint: cfg.URL,
		client:   &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		queue:    make(chan []byte, queueCapacity),
	}
	c.wg.Add(1)
	go c.worker()
	return c
}

// Send serializes the payload and transmits it. With durable=true the record
// is handed to the background worker and the returned response only means
// "queued", not "delivered". With durable=false the call awaits the endpoint
// response and returns its parsed success body.
//
// A payload missing userId or sessionId is a programming-contract violation:
// no network call is made and an error is returned.
func (c *Client) Send(ctx context.Context, payload models.Payload, durable bool) (*models.IngestResponse, error) {
	userID, sessionID := payload.Identity()
	if userID == "" || sessionID == "" {
		err := models.NewTrackError(models.ErrCodeMissingIdentity, "payload missing userId or sessionId", nil)
		slog.Error("cannot send data", "error", err)
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to serialize payload", "error", err)
		return nil, models.NewTrackError(models.ErrCodeSendFailed, "serialize payload", err)
	}

	if durable {
		select {
		case c.queue <- body:
			slog.Info("data queued on durable channel", "bytes", len(body))
			return &models.IngestResponse{Success: true}, nil
		default:
			err := models.NewTrackError(models.ErrCodeSendFailed, "durable queue full, record dropped", nil)
			slog.Error("durable channel queuing failed", "error", err)
			return nil, err
		}
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		slog.Error("error sending data", "error", err)
		return nil, err
	}
	slog.Info("data sent successfully", "success", resp.Success)
	return resp, nil
}

// Close drains the durable queue and stops the worker. Used on shutdown so
// queued records still get their one delivery attempt.
func (c *Client) Close() {
	close(c.queue)
	c.wg.Wait()
}

// worker services the durable channel one record at a time, preserving the
// order sends were issued in. Each attempt runs on a fresh background
// context: delivery must not depend on the enqueueing caller staying alive.
func (c *Client) worker() {
	defer c.wg.Done()
	for body := range c.queue {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
		if _, err := c.post(ctx, body); err != nil {
			slog.Error("durable channel delivery failed", "error", err)
		}
		cancel()
	}
}

func (c *Client) post(ctx context.Context, body []byte) (*models.IngestResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("delivery: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delivery: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Capture the failure text for diagnostics.
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, models.NewTrackError(
			models.ErrCodeBadStatus,
			fmt.Sprintf("endpoint returned status %d: %s", resp.StatusCode, string(text)),
			nil,
		)
	}

	var parsed models.IngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("delivery: decode response: %w", err)
	}
	return &parsed, nil
}
