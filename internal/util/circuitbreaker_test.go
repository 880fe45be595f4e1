package util

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Minute, zap.NewNop())

	cb.RecordFailure()
	if !cb.CanExecute() {
		t.Fatal("circuit should stay closed below threshold")
	}
	cb.RecordFailure()
	if cb.CanExecute() {
		t.Fatal("circuit should open at threshold")
	}
	if cb.RetryAfter() <= 0 {
		t.Fatal("open circuit should report a positive retry-after")
	}
}

func TestCircuitBreakerHalfOpenTrial(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cb := NewCircuitBreaker("test", 1, 30*time.Second, zap.NewNop())
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	if cb.GetState() != CircuitStateOpen {
		t.Fatalf("expected OPEN, got %s", cb.GetState())
	}

	now = now.Add(31 * time.Second)
	if cb.GetState() != CircuitStateHalfOpen {
		t.Fatalf("expected HALF_OPEN after reset timeout, got %s", cb.GetState())
	}

	cb.RecordFailure()
	if cb.GetState() != CircuitStateOpen {
		t.Fatalf("failed trial request should reopen, got %s", cb.GetState())
	}

	now = now.Add(31 * time.Second)
	cb.GetState()
	cb.RecordSuccess()
	if cb.GetState() != CircuitStateClosed {
		t.Fatalf("successful trial request should close, got %s", cb.GetState())
	}
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Minute, zap.NewNop())
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	if !cb.CanExecute() {
		t.Fatal("success should reset the consecutive failure count")
	}
}
