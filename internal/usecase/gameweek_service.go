package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
)

// GameweekLockListener is told when a gameweek moves to LOCKED.
type GameweekLockListener interface {
	OnGameweekLocked(ctx context.Context, gw gameweek.Gameweek) error
}

// GameweekService owns the gameweek state machine. The ACTIVE -> LOCKED
// transition is applied lazily on every read and by the deadline watcher.
type GameweekService struct {
	repo     gameweek.Repository
	logger   *logging.Logger
	now      func() time.Time
	mu       sync.Mutex
	listener GameweekLockListener
}

func NewGameweekService(repo gameweek.Repository, logger *logging.Logger) *GameweekService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameweekService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// OnLock registers the listener called after a gameweek locks.
func (s *GameweekService) OnLock(listener GameweekLockListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = listener
}

// Current returns the current gameweek, locking it first when its deadline
// has passed.
func (s *GameweekService) Current(ctx context.Context) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.Current")
	defer span.End()

	gw, _, err := s.LockIfDue(ctx)
	return gw, err
}

func (s *GameweekService) Get(ctx context.Context, number int) (gameweek.Gameweek, error) {
	if number <= 0 {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek must be > 0", ErrInvalidInput)
	}
	gw, exists, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get gameweek=%d: %w", number, err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%d", ErrNotFound, number)
	}
	return gw, nil
}

// OpenForMutation re-reads the current gameweek and fails with
// gameweek.ErrGameweekLocked unless squads may change right now.
func (s *GameweekService) OpenForMutation(ctx context.Context) (gameweek.Gameweek, error) {
	gw, err := s.Current(ctx)
	if err != nil {
		return gameweek.Gameweek{}, err
	}
	if err := gw.EnsureOpen(s.now()); err != nil {
		s.logger.DebugContext(ctx, "mutation rejected by gameweek lock", "gameweek", gw.Number, "status", gw.Status)
		return gw, err
	}
	return gw, nil
}

// LockIfDue applies the deadline transition. The bool reports whether this
// call performed the lock.
func (s *GameweekService) LockIfDue(ctx context.Context) (gameweek.Gameweek, bool, error) {
	gw, err := s.loadCurrent(ctx)
	if err != nil {
		return gameweek.Gameweek{}, false, err
	}
	now := s.now()
	if !gw.LockDue(now) {
		return gw, false, nil
	}

	s.mu.Lock()
	gw, err = s.loadCurrent(ctx)
	if err != nil {
		s.mu.Unlock()
		return gameweek.Gameweek{}, false, err
	}
	if !gw.LockDue(now) {
		s.mu.Unlock()
		return gw, false, nil
	}
	if err := gw.Lock(now); err != nil {
		s.mu.Unlock()
		return gameweek.Gameweek{}, false, err
	}
	if err := s.repo.Upsert(ctx, gw); err != nil {
		s.mu.Unlock()
		return gameweek.Gameweek{}, false, fmt.Errorf("persist locked gameweek=%d: %w", gw.Number, err)
	}
	listener := s.listener
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "gameweek locked", "gameweek", gw.Number, "deadline", gw.Deadline)
	if listener != nil {
		if err := listener.OnGameweekLocked(ctx, gw); err != nil {
			s.logger.WarnContext(ctx, "gameweek lock listener failed", "gameweek", gw.Number, "error", err)
		}
	}
	return gw, true, nil
}

// StartProcessing moves a LOCKED gameweek to PROCESSING.
func (s *GameweekService) StartProcessing(ctx context.Context, number int) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.StartProcessing")
	defer span.End()

	if _, _, err := s.LockIfDue(ctx); err != nil {
		return gameweek.Gameweek{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gw, err := s.currentNumbered(ctx, number)
	if err != nil {
		return gameweek.Gameweek{}, err
	}
	if err := gw.StartProcessing(s.now()); err != nil {
		return gameweek.Gameweek{}, err
	}
	if err := s.repo.Upsert(ctx, gw); err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("persist processing gameweek=%d: %w", gw.Number, err)
	}

	s.logger.InfoContext(ctx, "gameweek processing started", "gameweek", gw.Number)
	return gw, nil
}

// RequireStatus fails with gameweek.ErrInvalidTransition unless the current
// gameweek is number and has status.
func (s *GameweekService) RequireStatus(ctx context.Context, number int, status gameweek.Status) (gameweek.Gameweek, error) {
	gw, err := s.currentNumbered(ctx, number)
	if err != nil {
		return gameweek.Gameweek{}, err
	}
	if gw.Status != status {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek %d is %s, want %s", gameweek.ErrInvalidTransition, gw.Number, gw.Status, status)
	}
	return gw, nil
}

// Advance finalizes a PROCESSING gameweek and opens the next one.
func (s *GameweekService) Advance(ctx context.Context, number int, nextDeadline time.Time) (gameweek.Gameweek, gameweek.Gameweek, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gw, err := s.currentNumbered(ctx, number)
	if err != nil {
		return gameweek.Gameweek{}, gameweek.Gameweek{}, err
	}
	next, err := gw.Finalize(nextDeadline, s.now())
	if err != nil {
		return gameweek.Gameweek{}, gameweek.Gameweek{}, err
	}
	if err := s.repo.Upsert(ctx, gw); err != nil {
		return gameweek.Gameweek{}, gameweek.Gameweek{}, fmt.Errorf("persist finalized gameweek=%d: %w", gw.Number, err)
	}
	if err := s.repo.Upsert(ctx, next); err != nil {
		return gameweek.Gameweek{}, gameweek.Gameweek{}, fmt.Errorf("persist next gameweek=%d: %w", next.Number, err)
	}

	s.logger.InfoContext(ctx, "gameweek finalized", "gameweek", gw.Number, "next_gameweek", next.Number, "next_deadline", next.Deadline)
	return gw, next, nil
}

// StartSeason opens gameweek 1. It fails with ErrAlreadyExists once any
// gameweek is stored.
func (s *GameweekService) StartSeason(ctx context.Context, deadline time.Time) (gameweek.Gameweek, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !deadline.After(now) {
		return gameweek.Gameweek{}, fmt.Errorf("%w: first deadline must be in the future", ErrInvalidInput)
	}
	_, exists, err := s.repo.GetCurrent(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: season already started", ErrAlreadyExists)
	}

	gw := gameweek.Gameweek{
		Number:    1,
		Deadline:  deadline.UTC(),
		Status:    gameweek.StatusActive,
		UpdatedAt: now.UTC(),
	}
	if err := s.repo.Upsert(ctx, gw); err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("persist first gameweek: %w", err)
	}
	return gw, nil
}

func (s *GameweekService) loadCurrent(ctx context.Context) (gameweek.Gameweek, error) {
	gw, exists, err := s.repo.GetCurrent(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: no gameweek configured", ErrNotFound)
	}
	return gw, nil
}

func (s *GameweekService) currentNumbered(ctx context.Context, number int) (gameweek.Gameweek, error) {
	gw, err := s.loadCurrent(ctx)
	if err != nil {
		return gameweek.Gameweek{}, err
	}
	if number > 0 && gw.Number != number {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek %d is not current (current=%d)", gameweek.ErrInvalidTransition, number, gw.Number)
	}
	return gw, nil
}

