package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu    sync.RWMutex
	items map[int]gameweek.Gameweek
}

func NewGameweekRepository(gameweeks ...gameweek.Gameweek) *GameweekRepository {
	items := make(map[int]gameweek.Gameweek, len(gameweeks))
	for _, gw := range gameweeks {
		items[gw.Number] = gw
	}
	return &GameweekRepository{items: items}
}

func (r *GameweekRepository) GetCurrent(_ context.Context) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		current gameweek.Gameweek
		found   bool
	)
	for number, gw := range r.items {
		if !found || number > current.Number {
			current = gw
			found = true
		}
	}
	return current, found, nil
}

func (r *GameweekRepository) GetByNumber(_ context.Context, number int) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gw, ok := r.items[number]
	return gw, ok, nil
}

func (r *GameweekRepository) Upsert(_ context.Context, gw gameweek.Gameweek) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[gw.Number] = gw
	return nil
}
