package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

type entry struct {
	userID    uuid.UUID
	createdAt time.Time
	expiresAt time.Time
}

// Manager tracks live operator sessions in process memory. The demo is a
// single-instance deployment, so sessions do not need shared storage; revoking
// the access token's jti is enough to log an operator out everywhere.
type Manager struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]entry
}

// NewManager constructs an in-memory session manager with the given TTL.
func NewManager(ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]entry),
	}, nil
}

// Create registers a session for the token's jti and returns it.
func (m *Manager) Create(_ context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	accessID := uuid.NewString()
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[accessID] = entry{
		userID:    userID,
		createdAt: now,
		expiresAt: now.Add(m.ttl),
	}
	return accessID, nil
}

// HasSession reports whether the access id refers to a live session.
func (m *Manager) HasSession(_ context.Context, accessID string) (bool, error) {
	if accessID == "" {
		return false, nil
	}

	m.mu.RLock()
	sess, ok := m.sessions[accessID]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(sess.expiresAt) {
		m.mu.Lock()
		delete(m.sessions, accessID)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// Revoke drops the session; unknown ids are a no-op.
func (m *Manager) Revoke(_ context.Context, accessID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accessID)
	return nil
}

// UserID returns the owner of a session when it exists.
func (m *Manager) UserID(_ context.Context, accessID string) (uuid.UUID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[accessID]
	if !ok {
		return uuid.Nil, false
	}
	return sess.userID, true
}
