package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const eventTypeAuthState = "auth_state"

// authEvent is one auth-state change pushed by the identity provider.
type authEvent struct {
	Type     string `json:"type"`
	Token    string `json:"token"`
	SignedIn bool   `json:"signed_in"`
}

type StreamState string

const (
	StreamStateConnecting   StreamState = "CONNECTING"
	StreamStateConnected    StreamState = "CONNECTED"
	StreamStateDisconnected StreamState = "DISCONNECTED"
	StreamStateReconnecting StreamState = "RECONNECTING"
	StreamStateFailed       StreamState = "FAILED"
)

func (s StreamState) String() string {
	return string(s)
}

type StateCallback func(state StreamState)

type StreamConfig struct {
	URL                  string
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
	HandshakeTimeout     time.Duration
}

// StreamSource consumes the provider's auth-state websocket and publishes
// verified identities to an Observable.
type StreamSource struct {
	cfg        StreamConfig
	verifier   *Verifier
	observable *Observable
	logger     *zap.Logger

	stateMu        sync.RWMutex
	state          StreamState
	stateCallbacks []StateCallback
}

func NewStreamSource(cfg StreamConfig, verifier *Verifier, observable *Observable, logger *zap.Logger) *StreamSource {
	return &StreamSource{
		cfg:        cfg,
		verifier:   verifier,
		observable: observable,
		logger:     logger,
		state:      StreamStateDisconnected,
	}
}

// OnStateChange registers a callback for connection state transitions.
func (s *StreamSource) OnStateChange(callback StateCallback) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.stateCallbacks = append(s.stateCallbacks, callback)
}

func (s *StreamSource) GetState() StreamState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Run connects and consumes events until ctx is cancelled or the reconnect
// budget is exhausted. Consecutive failed connects count against the
// budget; a successful connect resets it.
func (s *StreamSource) Run(ctx context.Context) error {
	attempts := 0
	for {
		s.setState(StreamStateConnecting)
		connected, err := s.session(ctx)
		if ctx.Err() != nil {
			s.setState(StreamStateDisconnected)
			return nil
		}
		if connected {
			attempts = 0
		}

		attempts++
		if attempts > s.cfg.MaxReconnectAttempts {
			s.logger.Error("Max reconnect attempts reached", zap.Int("attempts", attempts-1), zap.Error(err))
			s.setState(StreamStateFailed)
			return fmt.Errorf("identity stream: giving up after %d attempts: %w", attempts-1, err)
		}

		s.setState(StreamStateReconnecting)
		s.logger.Info("Scheduling reconnect",
			zap.Int("attempt", attempts),
			zap.Int("max", s.cfg.MaxReconnectAttempts),
			zap.Duration("delay", s.cfg.ReconnectDelay),
			zap.Error(err),
		)

		select {
		case <-time.After(s.cfg.ReconnectDelay):
		case <-ctx.Done():
			s.setState(StreamStateDisconnected)
			return nil
		}
	}
}

// session runs one connection until it drops. connected reports whether the
// handshake succeeded.
func (s *StreamSource) session(ctx context.Context) (connected bool, err error) {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = s.cfg.HandshakeTimeout

	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		s.logger.Warn("Failed to connect identity stream", zap.Error(err))
		return false, err
	}
	s.setState(StreamStateConnected)
	s.logger.Info("Identity stream connected", zap.String("url", s.cfg.URL))

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.setState(StreamStateDisconnected)
			return true, err
		}
		s.handleMessage(data)
	}
}

func (s *StreamSource) handleMessage(data []byte) {
	var event authEvent
	if err := json.Unmarshal(data, &event); err != nil {
		dataStr := string(data)
		if len(dataStr) > 200 {
			dataStr = dataStr[:200]
		}
		s.logger.Warn("Failed to parse identity event", zap.Error(err), zap.String("data", dataStr))
		return
	}
	if event.Type != eventTypeAuthState {
		return
	}

	if !event.SignedIn {
		s.logger.Info("Identity signed out")
		s.observable.Publish(nil)
		return
	}

	identity, err := s.verifier.Verify(event.Token)
	if err != nil {
		s.logger.Warn("Rejected identity token", zap.Error(err))
		return
	}
	s.logger.Info("Identity signed in", zap.String("uid", identity.UID))
	s.observable.Publish(identity)
}

func (s *StreamSource) setState(next StreamState) {
	s.stateMu.Lock()
	prev := s.state
	s.state = next
	callbacks := make([]StateCallback, len(s.stateCallbacks))
	copy(callbacks, s.stateCallbacks)
	s.stateMu.Unlock()

	if prev == next {
		return
	}
	s.logger.Debug("Identity stream state changed",
		zap.String("from", prev.String()),
		zap.String("to", next.String()),
	)
	for _, callback := range callbacks {
		callback(next)
	}
}
