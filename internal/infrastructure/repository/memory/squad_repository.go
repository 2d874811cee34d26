package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
)

type SquadRepository struct {
	mu    sync.RWMutex
	items map[string]fantasy.Squad
}

func NewSquadRepository() *SquadRepository {
	return &SquadRepository{items: make(map[string]fantasy.Squad)}
}

func (r *SquadRepository) GetByManager(_ context.Context, managerID string) (fantasy.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	squad, ok := r.items[managerID]
	if !ok {
		return fantasy.Squad{}, false, nil
	}
	return squad.Clone(), true, nil
}

func (r *SquadRepository) ListManagerIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.items))
	for id := range r.items {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r *SquadRepository) Upsert(_ context.Context, squad fantasy.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[squad.ManagerID] = squad.Clone()
	return nil
}
