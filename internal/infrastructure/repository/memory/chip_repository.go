package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
)

type ChipRepository struct {
	mu    sync.RWMutex
	items map[string]chip.Inventory
}

func NewChipRepository() *ChipRepository {
	return &ChipRepository{items: make(map[string]chip.Inventory)}
}

func (r *ChipRepository) GetByManager(_ context.Context, managerID string) (chip.Inventory, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.items[managerID]
	if !ok {
		return chip.Inventory{}, false, nil
	}
	return inv.Clone(), true, nil
}

func (r *ChipRepository) Upsert(_ context.Context, inv chip.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[inv.ManagerID] = inv.Clone()
	return nil
}
