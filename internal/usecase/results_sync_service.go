package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// ExternalFixture is a fixture as listed by the results feed.
type ExternalFixture struct {
	ID        string
	Gameweek  int
	KickoffAt time.Time
	Finished  bool
}

// ResultsFeed is the upstream source of final match stats and market
// updates.
type ResultsFeed interface {
	ListFixtures(ctx context.Context, gameweek int) ([]ExternalFixture, error)
	GetFixtureStats(ctx context.Context, fixtureID string) ([]scoring.MatchStats, error)
	ListPlayerUpdates(ctx context.Context) ([]PlayerMarketUpdate, error)
}

type ResultsSyncConfig struct {
	MaxConcurrency int
	// AutoProcess moves a LOCKED gameweek to PROCESSING once every fixture
	// has been ingested.
	AutoProcess bool
}

type ResultsSyncResult struct {
	Gameweek      int             `json:"gameweek"`
	Status        gameweek.Status `json:"status"`
	FixtureCount  int             `json:"fixture_count"`
	FinishedCount int             `json:"finished_count"`
	IngestedCount int             `json:"ingested_count"`
	Complete      bool            `json:"complete"`
}

type ResultsSyncService struct {
	feed      ResultsFeed
	gameweeks *GameweekService
	scoring   *ScoringService
	players   *PlayerService
	cfg       ResultsSyncConfig
	logger    *logging.Logger
}

func NewResultsSyncService(
	feed ResultsFeed,
	gameweeks *GameweekService,
	scoringSvc *ScoringService,
	playerSvc *PlayerService,
	cfg ResultsSyncConfig,
	logger *logging.Logger,
) *ResultsSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	return &ResultsSyncService{
		feed:      feed,
		gameweeks: gameweeks,
		scoring:   scoringSvc,
		players:   playerSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

type fetchedFixture struct {
	fixtureID string
	stats     []scoring.MatchStats
}

// SyncResults pulls every finished fixture of a gameweek and ingests it.
// Fixtures are fetched in parallel and ingested one by one.
func (s *ResultsSyncService) SyncResults(ctx context.Context, gameweekNumber int) (ResultsSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsSyncService.SyncResults")
	defer span.End()

	if _, err := s.gameweeks.Current(ctx); err != nil {
		return ResultsSyncResult{}, err
	}
	gw, err := s.gameweeks.Get(ctx, gameweekNumber)
	if err != nil {
		return ResultsSyncResult{}, err
	}
	result := ResultsSyncResult{Gameweek: gw.Number, Status: gw.Status}
	if !gw.AcceptsResults() {
		return result, fmt.Errorf("%w: gameweek %d is %s and does not accept results", gameweek.ErrInvalidTransition, gw.Number, gw.Status)
	}

	fixtures, err := s.feed.ListFixtures(ctx, gw.Number)
	if err != nil {
		return result, fmt.Errorf("list feed fixtures gameweek=%d: %w", gw.Number, err)
	}
	result.FixtureCount = len(fixtures)

	finished := make([]ExternalFixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Finished {
			finished = append(finished, f)
		}
	}
	result.FinishedCount = len(finished)

	p := pool.NewWithResults[fetchedFixture]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(s.cfg.MaxConcurrency)
	for _, f := range finished {
		p.Go(func(ctx context.Context) (fetchedFixture, error) {
			stats, err := s.feed.GetFixtureStats(ctx, f.ID)
			if err != nil {
				return fetchedFixture{}, fmt.Errorf("fetch stats fixture=%s: %w", f.ID, err)
			}
			return fetchedFixture{fixtureID: f.ID, stats: stats}, nil
		})
	}
	fetched, err := p.Wait()
	if err != nil {
		return result, err
	}
	sort.Slice(fetched, func(i, j int) bool { return fetched[i].fixtureID < fetched[j].fixtureID })

	for _, item := range fetched {
		if _, err := s.scoring.IngestFixture(ctx, IngestFixtureInput{
			Gameweek:  gw.Number,
			FixtureID: item.fixtureID,
			Stats:     item.stats,
		}); err != nil {
			return result, err
		}
		result.IngestedCount++
	}

	result.Complete = result.FixtureCount > 0 && result.FinishedCount == result.FixtureCount
	if result.Complete && s.cfg.AutoProcess && gw.Status == gameweek.StatusLocked {
		processing, err := s.gameweeks.StartProcessing(ctx, gw.Number)
		if err != nil {
			return result, err
		}
		result.Status = processing.Status
	}

	s.logger.InfoContext(ctx, "results synced",
		"gameweek", gw.Number,
		"fixtures", result.FixtureCount,
		"ingested", result.IngestedCount,
		"complete", result.Complete,
	)
	return result, nil
}

// SyncPlayerMarket applies the feed's price and status changes.
func (s *ResultsSyncService) SyncPlayerMarket(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsSyncService.SyncPlayerMarket")
	defer span.End()

	updates, err := s.feed.ListPlayerUpdates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list feed player updates: %w", err)
	}
	players, err := s.players.UpdateMarket(ctx, updates)
	if err != nil {
		return 0, err
	}
	return len(players), nil
}
