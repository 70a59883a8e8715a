package payment

import (
	"testing"

	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
)

func TestRegistryStartsIdle(t *testing.T) {
	reg := NewRegistry()
	state, reason := reg.State("reg-1")
	if state != StateIdle || reason != "" {
		t.Fatalf("fresh session must be idle, got %s %q", state, reason)
	}
}

func TestBeginRejectsDoubleSubmit(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Begin("reg-1"); err != nil {
		t.Fatalf("first begin failed: %v", err)
	}

	err := reg.Begin("reg-1")
	if err == nil {
		t.Fatalf("second begin must be rejected")
	}
	if apiErr := pkgerrors.As(err); apiErr == nil || apiErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestFailThenRetry(t *testing.T) {
	reg := NewRegistry()
	reg.Begin("reg-1")
	reg.Fail("reg-1", "charge declined by clip terminal")

	state, reason := reg.State("reg-1")
	if state != StateError {
		t.Fatalf("expected error state, got %s", state)
	}
	if reason != "charge declined by clip terminal" {
		t.Fatalf("unexpected reason %q", reason)
	}

	if err := reg.Begin("reg-1"); err != nil {
		t.Fatalf("retry from error must be allowed: %v", err)
	}
	if state, reason := reg.State("reg-1"); state != StateProcessing || reason != "" {
		t.Fatalf("retry must clear the reason, got %s %q", state, reason)
	}
}

func TestSettleResetsToIdle(t *testing.T) {
	reg := NewRegistry()
	reg.Begin("reg-1")
	reg.Settle("reg-1")

	if state, _ := reg.State("reg-1"); state != StateIdle {
		t.Fatalf("settle must return the session to idle, got %s", state)
	}
}

func TestCancelBlockedWhileProcessing(t *testing.T) {
	reg := NewRegistry()
	reg.Begin("reg-1")

	err := reg.Cancel("reg-1")
	if apiErr := pkgerrors.As(err); apiErr == nil || apiErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict cancelling in flight, got %v", err)
	}

	reg.Fail("reg-1", "declined")
	if err := reg.Cancel("reg-1"); err != nil {
		t.Fatalf("cancel from error must be allowed: %v", err)
	}
	if state, _ := reg.State("reg-1"); state != StateIdle {
		t.Fatalf("cancel must land in idle")
	}
}

func TestSessionsIndependent(t *testing.T) {
	reg := NewRegistry()
	reg.Begin("reg-1")

	if err := reg.Begin("reg-2"); err != nil {
		t.Fatalf("other sessions must be unaffected: %v", err)
	}
}
