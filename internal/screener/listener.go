// Package screener ingests the live feed of newly created tokens and
// screens each against the risk-scoring service.
package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Listener defaults.
const (
	DefaultReconnectDelay = 30 * time.Second
	DefaultPingInterval   = 45 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
)

// TokenEvent is one new-token announcement from the feed.
type TokenEvent struct {
	Mint   string `json:"mint"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// ListenerConfig configures feed connection behavior.
type ListenerConfig struct {
	// ReconnectDelay is the wait before re-dialing after a dropped
	// connection.
	ReconnectDelay time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// WriteTimeout bounds writes (subscribe payload, pings).
	WriteTimeout time.Duration
}

// DefaultListenerConfig returns the default feed configuration.
func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		ReconnectDelay: DefaultReconnectDelay,
		PingInterval:   DefaultPingInterval,
		WriteTimeout:   DefaultWriteTimeout,
	}
}

// Listener maintains a WebSocket subscription to the new-token feed and
// delivers events on a channel. It reconnects on failure until the
// context is cancelled.
type Listener struct {
	endpoint string
	config   ListenerConfig
}

// NewListener creates a feed listener for the given endpoint.
func NewListener(endpoint string, config *ListenerConfig) *Listener {
	cfg := DefaultListenerConfig()
	if config != nil {
		cfg = *config
	}
	return &Listener{endpoint: endpoint, config: cfg}
}

// subscribeRequest is the feed subscription payload.
type subscribeRequest struct {
	Method string `json:"method"`
}

// Run connects and streams token events into out until ctx is
// cancelled. The channel is closed on return.
func (l *Listener) Run(ctx context.Context, out chan<- TokenEvent) error {
	defer close(out)

	for {
		if err := l.runOnce(ctx, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("feed listener: %v; reconnecting in %s", err, l.config.ReconnectDelay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.config.ReconnectDelay):
		}
	}
}

// runOnce dials, subscribes and reads until the connection drops or ctx
// is cancelled.
func (l *Listener) runOnce(ctx context.Context, out chan<- TokenEvent) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, l.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(subscribeRequest{Method: "subscribeNewToken"})
	if err != nil {
		return fmt.Errorf("marshal subscribe: %w", err)
	}
	conn.SetWriteDeadline(time.Now().Add(l.config.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	log.Printf("feed listener: subscribed to new token events")

	// Close the connection when ctx ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(l.config.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case <-done:
				return
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(l.config.WriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("websocket read: %w", err)
		}

		var event TokenEvent
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("feed listener: skip malformed message: %v", err)
			continue
		}
		if event.Mint == "" {
			continue
		}

		select {
		case out <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
