package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
)

var testSeasonStart = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type engineFixture struct {
	clock     *testClock
	deadline  time.Time
	playerDB  *memory.PlayerRepository
	gwDB      *memory.GameweekRepository
	scoreDB   *memory.ScoringRepository
	gameweeks *GameweekService
	squads    *SquadService
	transfers *TransferService
	chips     *ChipService
	scoring   *ScoringService
	players   *PlayerService
}

func newEngineFixture(t *testing.T, rules EngineRules) *engineFixture {
	t.Helper()

	clock := &testClock{now: testSeasonStart}
	deadline := testSeasonStart.Add(24 * time.Hour)
	logger := logging.NewNop()

	f := &engineFixture{
		clock:    clock,
		deadline: deadline,
		playerDB: memory.NewPlayerRepository(memory.SeedPlayers()),
		gwDB: memory.NewGameweekRepository(gameweek.Gameweek{
			Number:   1,
			Deadline: deadline,
			Status:   gameweek.StatusActive,
		}),
		scoreDB: memory.NewScoringRepository(),
	}

	f.gameweeks = NewGameweekService(f.gwDB, logger)
	f.gameweeks.now = clock.Now
	f.squads = NewSquadService(
		f.gameweeks,
		f.playerDB,
		memory.NewSquadRepository(),
		memory.NewTransferRepository(),
		memory.NewChipRepository(),
		rules,
		logger,
	)
	f.squads.now = clock.Now
	f.squads.store.now = clock.Now
	f.transfers = NewTransferService(f.gameweeks, f.squads, logger)
	f.chips = NewChipService(f.gameweeks, f.squads, logger)
	f.scoring = NewScoringService(f.gameweeks, f.squads, f.scoreDB, 4, logger)
	f.scoring.now = clock.Now
	f.players = NewPlayerService(f.gameweeks, f.playerDB, logger)
	f.players.now = clock.Now
	return f
}

// testSquadInput is a legal 1-4-4-2 squad worth 99.0 with three players from
// each of PSJ, PSB, PRB, BU and PSM.
func testSquadInput(managerID string) CreateSquadInput {
	return CreateSquadInput{
		ManagerID: managerID,
		PlayerIDs: []string{
			"psj-gk-1", "psb-gk-1",
			"psj-def-1", "psb-def-1", "prb-def-1", "bu-def-1", "psm-def-1",
			"psj-mid-1", "psb-mid-1", "prb-mid-1", "bu-mid-1", "psm-mid-1",
			"prb-fwd-1", "bu-fwd-1", "psm-fwd-1",
		},
		CaptainID:     "prb-fwd-1",
		ViceCaptainID: "psj-mid-1",
		BenchOrder:    []string{"psb-gk-1", "psm-def-1", "psm-mid-1", "psm-fwd-1"},
	}
}

func (f *engineFixture) createSquad(t *testing.T, ctx context.Context, managerID string) {
	t.Helper()
	if _, err := f.squads.CreateSquad(ctx, testSquadInput(managerID)); err != nil {
		t.Fatalf("create squad for %s: %v", managerID, err)
	}
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []queuedJob
	err  error
}

type queuedJob struct {
	path    string
	payload any
	delay   time.Duration
	dedupID string
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, queuedJob{path: path, payload: payload, delay: delay, dedupID: deduplicationID})
	return nil
}

func (q *recordingQueue) snapshot() []queuedJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queuedJob(nil), q.jobs...)
}
