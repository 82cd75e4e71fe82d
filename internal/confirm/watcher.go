// Package confirm waits for on-chain confirmation of the settle
// transaction after the host publishes it.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// Default configuration values.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultCommitment       = "confirmed"
)

// ErrTransactionFailed is returned when the confirmed transaction
// carries an on-chain error.
var ErrTransactionFailed = errors.New("transaction failed on-chain")

// SignatureResult reports the confirmation of one signature.
type SignatureResult struct {
	Slot uint64
	Err  interface{} // on-chain error object, nil on success
}

// Watcher subscribes to signature confirmations over the Solana
// WebSocket API. Each wait dials a fresh connection: the function is
// single-invocation, so there is nothing to pool.
type Watcher struct {
	endpoint         string
	commitment       string
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
}

// WatcherOption configures Watcher.
type WatcherOption func(*Watcher)

// WithCommitment sets the confirmation commitment level.
func WithCommitment(c string) WatcherOption {
	return func(w *Watcher) {
		w.commitment = c
	}
}

// WithHandshakeTimeout sets the WebSocket dial timeout.
func WithHandshakeTimeout(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.handshakeTimeout = d
	}
}

// NewWatcher creates a watcher for the given WebSocket endpoint.
func NewWatcher(endpoint string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		endpoint:         endpoint,
		commitment:       DefaultCommitment,
		handshakeTimeout: DefaultHandshakeTimeout,
		writeTimeout:     DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// wsRequest is a JSON-RPC 2.0 request frame.
type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// wsMessage is the union of the frames we care about: the subscription
// confirmation and the signature notification.
type wsMessage struct {
	ID     uint64          `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Method string          `json:"method,omitempty"`
	Error  *wsError        `json:"error,omitempty"`
	Params *struct {
		Subscription int64 `json:"subscription"`
		Result       struct {
			Context struct {
				Slot uint64 `json:"slot"`
			} `json:"context"`
			Value struct {
				Err interface{} `json:"err"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params,omitempty"`
}

type wsError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *wsError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// WaitForSignature blocks until the signature reaches the configured
// commitment or ctx is done. A non-nil on-chain error yields
// ErrTransactionFailed with the result still populated.
func (w *Watcher) WaitForSignature(ctx context.Context, signature string) (*SignatureResult, error) {
	dialer := websocket.Dialer{HandshakeTimeout: w.handshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, w.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	// Unblock ReadJSON when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "signatureSubscribe",
		Params: []interface{}{
			signature,
			map[string]string{"commitment": w.commitment},
		},
	}

	conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("send subscribe: %w", err)
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read message: %w", err)
		}

		if msg.Error != nil {
			return nil, msg.Error
		}

		// Subscription ack carries our request ID; the notification
		// that follows carries the result.
		if msg.Method != "signatureNotification" || msg.Params == nil {
			continue
		}

		result := &SignatureResult{
			Slot: msg.Params.Result.Context.Slot,
			Err:  msg.Params.Result.Value.Err,
		}
		if result.Err != nil {
			return result, fmt.Errorf("%w: %v", ErrTransactionFailed, result.Err)
		}
		return result, nil
	}
}
