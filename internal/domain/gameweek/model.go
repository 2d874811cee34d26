package gameweek

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrGameweekLocked    = errors.New("gameweek locked")
	ErrInvalidTransition = errors.New("invalid gameweek transition")
)

// Status is the lifecycle state of a gameweek.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusLocked     Status = "LOCKED"
	StatusProcessing Status = "PROCESSING"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusLocked, StatusProcessing:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown gameweek status %q", raw)
	}
	return s, nil
}

// Gameweek is one scoring period with a single transfer deadline.
type Gameweek struct {
	Number      int
	Deadline    time.Time
	Status      Status
	LockedAt    *time.Time
	FinalizedAt *time.Time
	UpdatedAt   time.Time
}

// DeadlinePassed is true from the deadline instant onwards.
func (g Gameweek) DeadlinePassed(now time.Time) bool {
	return !now.Before(g.Deadline)
}

// LockDue reports whether the time-driven ACTIVE -> LOCKED transition should
// fire.
func (g Gameweek) LockDue(now time.Time) bool {
	return g.Status == StatusActive && g.DeadlinePassed(now)
}

// EnsureOpen fails with ErrGameweekLocked unless mutations are allowed at now.
func (g Gameweek) EnsureOpen(now time.Time) error {
	if g.Status != StatusActive || g.DeadlinePassed(now) {
		return fmt.Errorf("%w: gameweek %d deadline %s", ErrGameweekLocked, g.Number, g.Deadline.UTC().Format(time.RFC3339))
	}
	return nil
}

func (g *Gameweek) Lock(now time.Time) error {
	if g.Status != StatusActive {
		return fmt.Errorf("%w: cannot lock gameweek %d from %s", ErrInvalidTransition, g.Number, g.Status)
	}
	lockedAt := now.UTC()
	g.Status = StatusLocked
	g.LockedAt = &lockedAt
	g.UpdatedAt = lockedAt
	return nil
}

func (g *Gameweek) StartProcessing(now time.Time) error {
	if g.Status != StatusLocked {
		return fmt.Errorf("%w: cannot process gameweek %d from %s", ErrInvalidTransition, g.Number, g.Status)
	}
	g.Status = StatusProcessing
	g.UpdatedAt = now.UTC()
	return nil
}

// Finalize closes a processed gameweek and returns the next one, open until
// nextDeadline.
func (g *Gameweek) Finalize(nextDeadline, now time.Time) (Gameweek, error) {
	if g.Status != StatusProcessing {
		return Gameweek{}, fmt.Errorf("%w: cannot finalize gameweek %d from %s", ErrInvalidTransition, g.Number, g.Status)
	}
	if !nextDeadline.After(now) {
		return Gameweek{}, fmt.Errorf("%w: next deadline %s is not in the future", ErrInvalidTransition, nextDeadline.UTC().Format(time.RFC3339))
	}

	finalizedAt := now.UTC()
	g.FinalizedAt = &finalizedAt
	g.UpdatedAt = finalizedAt

	return Gameweek{
		Number:    g.Number + 1,
		Deadline:  nextDeadline.UTC(),
		Status:    StatusActive,
		UpdatedAt: finalizedAt,
	}, nil
}

// AcceptsResults reports whether match results for this gameweek may be
// ingested. A finalized gameweek is closed for good.
func (g Gameweek) AcceptsResults() bool {
	if g.FinalizedAt != nil {
		return false
	}
	return g.Status == StatusLocked || g.Status == StatusProcessing
}
