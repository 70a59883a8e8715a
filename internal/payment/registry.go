package payment

import (
	"sync"

	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
)

// State is the payment phase of one register session.
type State string

const (
	// StateIdle means no attempt is underway; a new checkout may start.
	StateIdle State = "idle"
	// StateProcessing means a charge is in flight. Nothing else may start,
	// and the attempt cannot be cancelled from here.
	StateProcessing State = "processing"
	// StateError means the last attempt failed; the operator may retry or
	// cancel back to the cart.
	StateError State = "error"
)

type attempt struct {
	state      State
	lastReason string
}

// Registry tracks the payment state machine per session. A session with no
// entry is Idle. Success is not stored: a successful checkout clears the cart
// and resets the session straight back to Idle.
type Registry struct {
	mu       sync.Mutex
	attempts map[string]*attempt
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{attempts: make(map[string]*attempt)}
}

func (r *Registry) entry(sessionID string) *attempt {
	if existing, ok := r.attempts[sessionID]; ok {
		return existing
	}
	created := &attempt{state: StateIdle}
	r.attempts[sessionID] = created
	return created
}

// State reports the session's current phase and, in Error, the last decline
// reason.
func (r *Registry) State(sessionID string) (State, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.entry(sessionID)
	return a.state, a.lastReason
}

// Begin moves the session into Processing. Permitted from Idle and from Error
// (a retry). A session already Processing is rejected so double-submits
// cannot charge twice.
func (r *Registry) Begin(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.entry(sessionID)
	if a.state == StateProcessing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "a payment is already processing for this session")
	}
	a.state = StateProcessing
	a.lastReason = ""
	return nil
}

// Fail records a declined or errored attempt; the session lands in Error and
// may retry or cancel.
func (r *Registry) Fail(sessionID, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.entry(sessionID)
	a.state = StateError
	a.lastReason = reason
}

// Settle resets the session to Idle after a recorded sale.
func (r *Registry) Settle(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, sessionID)
}

// Cancel abandons a failed or idle attempt and returns to Idle. An in-flight
// charge cannot be cancelled: the outcome is already with the processor, so
// the operator must wait for it to land.
func (r *Registry) Cancel(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.entry(sessionID)
	if a.state == StateProcessing {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot cancel while a charge is in flight")
	}
	delete(r.attempts, sessionID)
	return nil
}
