package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateLoading       SessionState = "loading"
	StateReady         SessionState = "ready"
	StateDestroyed     SessionState = "destroyed"
)

// Manager holds the single live chat session. Start is idempotent: callers
// arriving while an initialization is in flight join it instead of starting
// another, so exactly one load sequence runs per live session.
type Manager struct {
	log    *zap.Logger
	initFn func(context.Context) error

	mu      sync.Mutex
	state   SessionState
	waiters []chan error
	lastErr string
}

func NewManager(log *zap.Logger, initFn func(context.Context) error) *Manager {
	return &Manager{
		log:    log.Named("chat-session"),
		initFn: initFn,
		state:  StateUninitialized,
	}
}

// Start brings the session to ready. Concurrent callers share one
// initialization; a ready session returns immediately. A failed attempt
// resets to uninitialized and is not retried automatically.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateReady:
		m.mu.Unlock()
		return nil
	case StateLoading:
		ch := make(chan error, 1)
		m.waiters = append(m.waiters, ch)
		m.mu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	default: // uninitialized or destroyed
		m.state = StateLoading
		m.mu.Unlock()
	}

	err := m.initFn(ctx)

	m.mu.Lock()
	switch {
	case m.state == StateDestroyed:
		// Stop arrived while loading; the session stays down.
		if err == nil {
			err = errors.New("session stopped during initialization")
		}
	case err != nil:
		m.state = StateUninitialized
		m.lastErr = ClassifyInitError(err)
		m.log.Warn("session initialization failed", zap.Error(err))
	default:
		m.state = StateReady
		m.lastErr = ""
	}
	waiters := m.waiters
	m.waiters = nil
	m.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}
	return err
}

// Stop destroys the session; the next Start begins from scratch.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateDestroyed
}

// State returns the current lifecycle state.
func (m *Manager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError returns the user-facing message from the most recent failed
// initialization, if any.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// ClassifyInitError maps an initialization failure to the message shown to
// visitors, keyed on a substring match.
func ClassifyInitError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unsupported provider") || strings.Contains(msg, "no enabled ai provider") {
		return "The chat assistant is not available in this deployment."
	}
	return "The chat assistant failed to start. Please try again later."
}
