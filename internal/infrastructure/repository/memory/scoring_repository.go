package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
)

type fixtureKey struct {
	gameweek  int
	fixtureID string
}

type managerGameweekKey struct {
	managerID string
	gameweek  int
}

type ScoringRepository struct {
	mu       sync.RWMutex
	fixtures map[fixtureKey][]scoring.PlayerScore
	managers map[managerGameweekKey]scoring.ManagerPoints
}

func NewScoringRepository() *ScoringRepository {
	return &ScoringRepository{
		fixtures: make(map[fixtureKey][]scoring.PlayerScore),
		managers: make(map[managerGameweekKey]scoring.ManagerPoints),
	}
}

func (r *ScoringRepository) ReplaceFixtureScores(_ context.Context, gameweek int, fixtureID string, scores []scoring.PlayerScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fixtures[fixtureKey{gameweek: gameweek, fixtureID: fixtureID}] = append([]scoring.PlayerScore(nil), scores...)
	return nil
}

func (r *ScoringRepository) ListPlayerScoresByGameweek(_ context.Context, gameweek int) ([]scoring.PlayerScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.PlayerScore, 0)
	for key, scores := range r.fixtures {
		if key.gameweek == gameweek {
			out = append(out, scores...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stats.FixtureID != out[j].Stats.FixtureID {
			return out[i].Stats.FixtureID < out[j].Stats.FixtureID
		}
		return out[i].Stats.PlayerID < out[j].Stats.PlayerID
	})
	return out, nil
}

func (r *ScoringRepository) UpsertManagerPoints(_ context.Context, points scoring.ManagerPoints) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	points.Players = append([]scoring.PlayerPoints(nil), points.Players...)
	r.managers[managerGameweekKey{managerID: points.ManagerID, gameweek: points.Gameweek}] = points
	return nil
}

func (r *ScoringRepository) GetManagerPoints(_ context.Context, managerID string, gameweek int) (scoring.ManagerPoints, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	points, ok := r.managers[managerGameweekKey{managerID: managerID, gameweek: gameweek}]
	return points, ok, nil
}

func (r *ScoringRepository) ListManagerPoints(_ context.Context, managerID string) ([]scoring.ManagerPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.ManagerPoints, 0)
	for key, points := range r.managers {
		if key.managerID == managerID {
			out = append(out, points)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gameweek < out[j].Gameweek })
	return out, nil
}
