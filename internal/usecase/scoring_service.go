package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
)

const defaultScoringWorkers = 8

type ScorePlayerInput struct {
	Stats    scoring.MatchStats
	Position player.Position
	Captain  bool
	Chip     chip.Type
}

type ScorePlayerResult struct {
	Breakdown  scoring.Breakdown
	BasePoints int
	Multiplier int
	Points     int
}

type IngestFixtureInput struct {
	Gameweek  int
	FixtureID string
	Stats     []scoring.MatchStats
}

type FinalizeGameweekInput struct {
	Gameweek     int
	NextDeadline time.Time
}

type FinalizeGameweekResult struct {
	Gameweek       gameweek.Gameweek
	Next           gameweek.Gameweek
	ManagersScored int
	PlayersUpdated int
	WorkerCount    int
}

type ScoringService struct {
	gameweeks *GameweekService
	store     *managerStore
	scores    scoring.Repository
	policy    chip.DeductionPolicy
	workers   int
	logger    *logging.Logger
	now       func() time.Time
}

func NewScoringService(
	gameweeks *GameweekService,
	squads *SquadService,
	scores scoring.Repository,
	workers int,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultScoringWorkers
	}
	return &ScoringService{
		gameweeks: gameweeks,
		store:     squads.store,
		scores:    scores,
		policy:    squads.rules.ChipPolicy,
		workers:   workers,
		logger:    logger,
		now:       time.Now,
	}
}

// ScorePlayer scores one stat line without touching storage.
func (s *ScoringService) ScorePlayer(input ScorePlayerInput) (ScorePlayerResult, error) {
	if !input.Position.Valid() {
		return ScorePlayerResult{}, fmt.Errorf("%w: %w: %s", ErrInvalidInput, player.ErrUnknownPosition, input.Position)
	}
	if input.Chip != chip.None && !input.Chip.Valid() {
		return ScorePlayerResult{}, fmt.Errorf("%w: unknown chip %q", chip.ErrInvalidChip, input.Chip)
	}
	if strings.TrimSpace(input.Stats.FixtureID) == "" {
		input.Stats.FixtureID = "adhoc"
	}
	if strings.TrimSpace(input.Stats.PlayerID) == "" {
		input.Stats.PlayerID = "adhoc"
	}
	if err := input.Stats.Validate(); err != nil {
		return ScorePlayerResult{}, err
	}

	breakdown := scoring.Score(input.Stats, input.Position)
	multiplier := 1
	if input.Captain {
		multiplier = scoring.CaptainMultiplier(input.Chip)
	}
	return ScorePlayerResult{
		Breakdown:  breakdown,
		BasePoints: breakdown.Total(),
		Multiplier: multiplier,
		Points:     breakdown.Total() * multiplier,
	}, nil
}

// IngestFixture scores the final stat lines of one fixture and stores them,
// replacing an earlier ingestion of the same fixture.
func (s *ScoringService) IngestFixture(ctx context.Context, input IngestFixtureInput) ([]scoring.PlayerScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.IngestFixture")
	defer span.End()

	input.FixtureID = strings.TrimSpace(input.FixtureID)
	if input.FixtureID == "" {
		return nil, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	// Applies a due lock before checking the status.
	if _, err := s.gameweeks.Current(ctx); err != nil {
		return nil, err
	}
	gw, err := s.gameweeks.Get(ctx, input.Gameweek)
	if err != nil {
		return nil, err
	}
	if !gw.AcceptsResults() {
		return nil, fmt.Errorf("%w: gameweek %d is %s and does not accept results", gameweek.ErrInvalidTransition, gw.Number, gw.Status)
	}

	lines := make([]scoring.MatchStats, 0, len(input.Stats))
	playerIDs := make([]string, 0, len(input.Stats))
	for _, line := range input.Stats {
		if line.FixtureID == "" {
			line.FixtureID = input.FixtureID
		}
		if line.Gameweek == 0 {
			line.Gameweek = gw.Number
		}
		if line.FixtureID != input.FixtureID || line.Gameweek != gw.Number {
			return nil, fmt.Errorf("%w: stats for player %s belong to fixture %s gameweek %d", scoring.ErrInvalidStats, line.PlayerID, line.FixtureID, line.Gameweek)
		}
		if err := line.Validate(); err != nil {
			return nil, err
		}
		lines = append(lines, line)
		playerIDs = append(playerIDs, line.PlayerID)
	}

	players, err := s.store.players.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get fixture players: %w", err)
	}
	positions := make(map[string]player.Position, len(players))
	for _, p := range players {
		positions[p.ID] = p.Position
	}

	scores := scoring.ScoreFixture(lines, positions)
	scoredAt := s.now().UTC()
	for i := range scores {
		scores[i].ScoredAt = scoredAt
	}
	if skipped := len(lines) - len(scores); skipped > 0 {
		s.logger.WarnContext(ctx, "fixture lines skipped for unknown players", "fixture_id", input.FixtureID, "skipped", skipped)
	}

	if err := s.scores.ReplaceFixtureScores(ctx, gw.Number, input.FixtureID, scores); err != nil {
		return nil, fmt.Errorf("store fixture scores fixture=%s: %w", input.FixtureID, err)
	}

	s.logger.InfoContext(ctx, "fixture ingested", "gameweek", gw.Number, "fixture_id", input.FixtureID, "lines", len(scores))
	return scores, nil
}

// FinalizeGameweek scores every manager for a PROCESSING gameweek, updates
// player points and opens the next gameweek.
func (s *ScoringService) FinalizeGameweek(ctx context.Context, input FinalizeGameweekInput) (FinalizeGameweekResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.FinalizeGameweek")
	defer span.End()

	if !input.NextDeadline.After(s.now()) {
		return FinalizeGameweekResult{}, fmt.Errorf("%w: next deadline must be in the future", ErrInvalidInput)
	}
	gw, err := s.gameweeks.RequireStatus(ctx, input.Gameweek, gameweek.StatusProcessing)
	if err != nil {
		return FinalizeGameweekResult{}, err
	}

	scores, err := s.scores.ListPlayerScoresByGameweek(ctx, gw.Number)
	if err != nil {
		return FinalizeGameweekResult{}, fmt.Errorf("list player scores gameweek=%d: %w", gw.Number, err)
	}
	totals := scoring.TotalsByPlayer(scores)

	managerIDs, err := s.store.squads.ListManagerIDs(ctx)
	if err != nil {
		return FinalizeGameweekResult{}, fmt.Errorf("list managers: %w", err)
	}

	workerCount := min(s.workers, max(1, len(managerIDs)))
	scored, err := s.scoreManagers(ctx, gw.Number, managerIDs, totals, workerCount)
	if err != nil {
		return FinalizeGameweekResult{}, err
	}

	updated, err := s.applyPlayerPoints(ctx, totals)
	if err != nil {
		return FinalizeGameweekResult{}, err
	}

	finalized, next, err := s.gameweeks.Advance(ctx, gw.Number, input.NextDeadline)
	if err != nil {
		return FinalizeGameweekResult{}, err
	}

	return FinalizeGameweekResult{
		Gameweek:       finalized,
		Next:           next,
		ManagersScored: scored,
		PlayersUpdated: updated,
		WorkerCount:    workerCount,
	}, nil
}

func (s *ScoringService) scoreManagers(ctx context.Context, gameweekNumber int, managerIDs []string, totals map[string]scoring.Totals, workerCount int) (int, error) {
	if len(managerIDs) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers sync.WaitGroup
		scored  atomic.Int32
		errMu   sync.Mutex
		errs    []error
	)
	for _, managerID := range managerIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if err := s.scoreManager(ctx, managerID, gameweekNumber, totals); err != nil {
				s.logger.ErrorContext(ctx, "score manager failed", "manager_id", managerID, "gameweek", gameweekNumber, "error", err)
				errMu.Lock()
				errs = append(errs, fmt.Errorf("manager=%s: %w", managerID, err))
				errMu.Unlock()
				return
			}
			scored.Add(1)
		}); err != nil {
			workers.Done()
			return 0, fmt.Errorf("submit manager to worker pool: %w", err)
		}
	}
	workers.Wait()

	if len(errs) > 0 {
		return int(scored.Load()), fmt.Errorf("score gameweek=%d: %w", gameweekNumber, errors.Join(errs...))
	}
	return int(scored.Load()), nil
}

// scoreManager scores the confirmed squad. Unconfirmed changes never score.
func (s *ScoringService) scoreManager(ctx context.Context, managerID string, gameweekNumber int, totals map[string]scoring.Totals) error {
	return s.store.withManager(managerID, func() error {
		agg, err := s.store.load(ctx, managerID, gameweekNumber)
		if err != nil {
			return err
		}

		active, _ := agg.Chips.ActiveFor(gameweekNumber)
		points := scoring.ScoreManager(agg.Transfer.Original, gameweekNumber, active, agg.Transfer.PointsHitFor(gameweekNumber), totals)
		points.ManagerID = managerID
		points.CalculatedAt = s.now().UTC()
		if err := s.scores.UpsertManagerPoints(ctx, points); err != nil {
			return fmt.Errorf("upsert manager points: %w", err)
		}

		if s.policy == chip.DeductOnCommit && agg.Chips.Commit(gameweekNumber) {
			return s.store.save(ctx, agg)
		}
		return nil
	})
}

func (s *ScoringService) applyPlayerPoints(ctx context.Context, totals map[string]scoring.Totals) (int, error) {
	players, err := s.store.players.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list players: %w", err)
	}

	now := s.now().UTC()
	for i := range players {
		points := totals[players[i].ID].Points
		players[i].TotalPoints += points
		players[i].PointsLastGameweek = points
		players[i].UpdatedAt = now
	}
	if err := s.store.players.UpsertMany(ctx, players); err != nil {
		return 0, fmt.Errorf("update player points: %w", err)
	}
	return len(players), nil
}

func (s *ScoringService) GetManagerPoints(ctx context.Context, managerID string, gameweekNumber int) (scoring.ManagerPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetManagerPoints")
	defer span.End()

	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return scoring.ManagerPoints{}, err
	}
	if gameweekNumber <= 0 {
		return scoring.ManagerPoints{}, fmt.Errorf("%w: gameweek must be > 0", ErrInvalidInput)
	}

	points, exists, err := s.scores.GetManagerPoints(ctx, managerID, gameweekNumber)
	if err != nil {
		return scoring.ManagerPoints{}, fmt.Errorf("get manager points manager=%s gameweek=%d: %w", managerID, gameweekNumber, err)
	}
	if !exists {
		return scoring.ManagerPoints{}, fmt.Errorf("%w: points for manager=%s gameweek=%d", ErrNotFound, managerID, gameweekNumber)
	}
	return points, nil
}

func (s *ScoringService) ListManagerPoints(ctx context.Context, managerID string) ([]scoring.ManagerPoints, error) {
	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return nil, err
	}
	items, err := s.scores.ListManagerPoints(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("list manager points manager=%s: %w", managerID, err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Gameweek < items[j].Gameweek })
	return items, nil
}

// LiveManagerPoints totals the fixtures ingested so far for the current
// gameweek. Nothing is stored.
func (s *ScoringService) LiveManagerPoints(ctx context.Context, managerID string) (scoring.ManagerPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.LiveManagerPoints")
	defer span.End()

	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return scoring.ManagerPoints{}, err
	}
	gw, err := s.gameweeks.Current(ctx)
	if err != nil {
		return scoring.ManagerPoints{}, err
	}
	scores, err := s.scores.ListPlayerScoresByGameweek(ctx, gw.Number)
	if err != nil {
		return scoring.ManagerPoints{}, fmt.Errorf("list player scores gameweek=%d: %w", gw.Number, err)
	}
	agg, err := s.store.load(ctx, managerID, gw.Number)
	if err != nil {
		return scoring.ManagerPoints{}, err
	}

	active, _ := agg.Chips.ActiveFor(gw.Number)
	points := scoring.ScoreManager(agg.Transfer.Original, gw.Number, active, agg.Transfer.PointsHitFor(gw.Number), scoring.TotalsByPlayer(scores))
	points.ManagerID = managerID
	points.CalculatedAt = s.now().UTC()
	return points, nil
}
