package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DSR124124/edugen-tracking-go/internal/domain/tracking"
	"github.com/DSR124124/edugen-tracking-go/internal/domain/user"
)

// Dispatcher delivers tracking events to the telemetry backend. Delivery is
// best-effort, at-most-once: failures are logged and swallowed, never
// surfaced to the caller.
type Dispatcher interface {
	// Dispatch enqueues an event for delivery. It never blocks and never
	// returns an error; undeliverable events are dropped.
	Dispatch(evt tracking.Event)
	// ServerSessionID returns the backend-assigned session id, or 0 when no
	// successful response has carried one yet.
	ServerSessionID() int64
	// Close stops the dispatcher after draining already-enqueued events.
	Close()
}

// HTTPDispatcherConfig holds the knobs for the HTTP dispatcher.
type HTTPDispatcherConfig struct {
	Endpoint  string
	Role      user.Role
	AuthToken string        // optional bearer token for the tracking endpoint
	QueueSize int           // bounded outbound queue; <= 0 selects 32
	Timeout   time.Duration // per-request transport timeout; <= 0 selects 10s
	Client    *http.Client  // optional; built from Timeout when nil
}

// HTTPDispatcher posts events to the tracking endpoint from a single
// background goroutine fed by a bounded, non-blocking queue. The queue is the
// explicit form of the fire-and-forget channel: a slow in-flight request
// never blocks the controller, and a full queue drops the oldest pressure by
// discarding the new event.
type HTTPDispatcher struct {
	endpoint  string
	role      user.Role
	authToken string
	client    *http.Client
	logger    *slog.Logger

	// mu guards queue sends against close: enqueue and close(queue) are
	// mutually exclusive, so Dispatch can never send on a closed channel.
	mu     sync.Mutex
	closed bool

	queue     chan tracking.Event
	sessionID atomic.Int64
	wg        sync.WaitGroup
}

// NewHTTPDispatcher creates a dispatcher and starts its drain goroutine.
func NewHTTPDispatcher(cfg HTTPDispatcherConfig, logger *slog.Logger) *HTTPDispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 32
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &HTTPDispatcher{
		endpoint:  cfg.Endpoint,
		role:      cfg.Role,
		authToken: cfg.AuthToken,
		client:    client,
		logger:    logger,
		queue:     make(chan tracking.Event, cfg.QueueSize),
	}

	d.wg.Add(1)
	go d.drain()

	return d
}

// Dispatch enqueues an event for background delivery. Events for non-learner
// roles or with an invalid material id are dropped before any network work.
func (d *HTTPDispatcher) Dispatch(evt tracking.Event) {
	if !d.role.CanTrack() {
		return
	}
	if evt.MaterialID <= 0 {
		d.logger.Debug("Dropping tracking event with invalid material id",
			"materialId", evt.MaterialID,
			"action", evt.Action)
		return
	}

	if sid := d.sessionID.Load(); sid != 0 && evt.SessionID == 0 {
		evt.SessionID = sid
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- evt:
	default:
		d.logger.Warn("Tracking dispatch queue full, event dropped",
			"materialId", evt.MaterialID,
			"action", evt.Action)
	}
}

// ServerSessionID returns the cached backend session id, 0 when unknown.
func (d *HTTPDispatcher) ServerSessionID() int64 {
	return d.sessionID.Load()
}

// Close drains outstanding events and stops the background goroutine.
// Safe to call more than once and concurrently with Dispatch.
func (d *HTTPDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *HTTPDispatcher) drain() {
	defer d.wg.Done()
	for evt := range d.queue {
		d.send(evt)
	}
}

// send performs one delivery attempt. Every failure mode is logged and
// swallowed: engagement telemetry must never interrupt the learning
// experience.
func (d *HTTPDispatcher) send(evt tracking.Event) {
	body, err := json.Marshal(evt)
	if err != nil {
		d.logger.Error("Failed to encode tracking event", "error", err.Error(), "action", evt.Action)
		return
	}

	req, err := http.NewRequest(http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		d.logger.Error("Failed to build tracking request", "error", err.Error(), "endpoint", d.endpoint)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if d.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.authToken)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("Tracking event delivery failed",
			"error", err.Error(),
			"materialId", evt.MaterialID,
			"action", evt.Action)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.logger.Warn("Tracking endpoint rejected event",
			"status", resp.StatusCode,
			"materialId", evt.MaterialID,
			"action", evt.Action)
		return
	}

	var parsed tracking.EventResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&parsed); err != nil {
		d.logger.Warn("Malformed tracking response body",
			"error", err.Error(),
			"materialId", evt.MaterialID,
			"action", evt.Action)
		return
	}

	if parsed.SessionID != 0 {
		// First assigned id wins for the remainder of the session.
		if d.sessionID.CompareAndSwap(0, parsed.SessionID) {
			d.logger.Debug("Tracking session id assigned",
				"sessionId", parsed.SessionID,
				"materialId", evt.MaterialID)
		}
	}
}

var _ Dispatcher = (*HTTPDispatcher)(nil)

// String implements fmt.Stringer for diagnostics.
func (d *HTTPDispatcher) String() string {
	return fmt.Sprintf("HTTPDispatcher(endpoint=%s, queued=%d)", d.endpoint, len(d.queue))
}
