package gameweek

import (
	"errors"
	"testing"
	"time"
)

func TestGameweek_EnsureOpen(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	gw := Gameweek{Number: 1, Deadline: deadline, Status: StatusActive}

	tests := []struct {
		name    string
		now     time.Time
		status  Status
		wantErr bool
	}{
		{name: "before deadline", now: deadline.Add(-time.Second), status: StatusActive},
		{name: "exactly at deadline", now: deadline, status: StatusActive, wantErr: true},
		{name: "same second after deadline", now: deadline.Add(500 * time.Millisecond), status: StatusActive, wantErr: true},
		{name: "locked before watcher catches up", now: deadline.Add(-time.Minute), status: StatusLocked, wantErr: true},
		{name: "processing", now: deadline.Add(time.Hour), status: StatusProcessing, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			g := gw
			g.Status = tc.status
			err := g.EnsureOpen(tc.now)
			if tc.wantErr && !errors.Is(err, ErrGameweekLocked) {
				t.Fatalf("expected ErrGameweekLocked, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected open gameweek, got %v", err)
			}
		})
	}
}

func TestGameweek_Transitions(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	gw := Gameweek{Number: 4, Deadline: deadline, Status: StatusActive}

	if err := gw.StartProcessing(deadline); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition processing an active gameweek, got %v", err)
	}
	if !gw.LockDue(deadline) {
		t.Fatalf("expected lock to be due at deadline")
	}
	if err := gw.Lock(deadline); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if gw.Status != StatusLocked || gw.LockedAt == nil {
		t.Fatalf("unexpected state after lock: %+v", gw)
	}
	if err := gw.Lock(deadline); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition locking twice, got %v", err)
	}
	if !gw.AcceptsResults() {
		t.Fatalf("locked gameweek should accept results")
	}

	if _, err := gw.Finalize(deadline.Add(7*24*time.Hour), deadline); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition finalizing a locked gameweek, got %v", err)
	}
	if err := gw.StartProcessing(deadline.Add(48 * time.Hour)); err != nil {
		t.Fatalf("start processing: %v", err)
	}

	now := deadline.Add(72 * time.Hour)
	if _, err := gw.Finalize(now.Add(-time.Hour), now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for past next deadline, got %v", err)
	}

	next, err := gw.Finalize(deadline.Add(7*24*time.Hour), now)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if next.Number != 5 || next.Status != StatusActive {
		t.Fatalf("unexpected next gameweek: %+v", next)
	}
	if gw.FinalizedAt == nil {
		t.Fatalf("expected finalized timestamp on closed gameweek")
	}
	if gw.AcceptsResults() {
		t.Fatalf("finalized gameweek must not accept results")
	}
}
