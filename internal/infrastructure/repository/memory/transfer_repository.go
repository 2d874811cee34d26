package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
)

type TransferRepository struct {
	mu    sync.RWMutex
	items map[string]transfer.State
}

func NewTransferRepository() *TransferRepository {
	return &TransferRepository{items: make(map[string]transfer.State)}
}

func (r *TransferRepository) GetByManager(_ context.Context, managerID string) (transfer.State, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.items[managerID]
	if !ok {
		return transfer.State{}, false, nil
	}
	return state.Clone(), true, nil
}

func (r *TransferRepository) Upsert(_ context.Context, state transfer.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[state.ManagerID] = state.Clone()
	return nil
}
