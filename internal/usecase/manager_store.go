package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/resilience"
)

// managerAggregate is everything one manager owns: the working squad, the
// transfer bookkeeping and the chip ledger.
type managerAggregate struct {
	Squad    fantasy.Squad
	Transfer transfer.State
	Chips    chip.Inventory
	// RolledOver is set when loading moved the transfer state into a newer
	// gameweek.
	RolledOver bool
}

// managerStore loads and saves manager aggregates. Mutations for one manager
// run under that manager's lock so they are applied one at a time.
type managerStore struct {
	squads    fantasy.Repository
	transfers transfer.Repository
	chips     chip.Repository
	players   player.Repository
	locks     *resilience.KeyedMutex
	rules     EngineRules
	now       func() time.Time
}

func newManagerStore(
	squads fantasy.Repository,
	transfers transfer.Repository,
	chips chip.Repository,
	players player.Repository,
	rules EngineRules,
) *managerStore {
	return &managerStore{
		squads:    squads,
		transfers: transfers,
		chips:     chips,
		players:   players,
		locks:     &resilience.KeyedMutex{},
		rules:     rules,
		now:       time.Now,
	}
}

func (m *managerStore) withManager(managerID string, fn func() error) error {
	return m.locks.WithLock(managerID, fn)
}

func normalizeManagerID(managerID string) (string, error) {
	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return "", fmt.Errorf("%w: manager id is required", ErrInvalidInput)
	}
	return managerID, nil
}

func (m *managerStore) exists(ctx context.Context, managerID string) (bool, error) {
	_, exists, err := m.squads.GetByManager(ctx, managerID)
	if err != nil {
		return false, fmt.Errorf("get squad manager=%s: %w", managerID, err)
	}
	return exists, nil
}

// load reads the aggregate as seen from gameweek, rolling the transfer state
// forward and refreshing prices. Nothing is persisted.
func (m *managerStore) load(ctx context.Context, managerID string, gameweek int) (managerAggregate, error) {
	squad, exists, err := m.squads.GetByManager(ctx, managerID)
	if err != nil {
		return managerAggregate{}, fmt.Errorf("get squad manager=%s: %w", managerID, err)
	}
	if !exists {
		return managerAggregate{}, fmt.Errorf("%w: squad for manager=%s", ErrNotFound, managerID)
	}

	state, exists, err := m.transfers.GetByManager(ctx, managerID)
	if err != nil {
		return managerAggregate{}, fmt.Errorf("get transfer state manager=%s: %w", managerID, err)
	}
	if !exists {
		state = transfer.NewState(squad, gameweek, m.rules.Transfer)
	}

	inv, exists, err := m.chips.GetByManager(ctx, managerID)
	if err != nil {
		return managerAggregate{}, fmt.Errorf("get chips manager=%s: %w", managerID, err)
	}
	if !exists {
		inv = chip.NewInventory(managerID, m.rules.ChipsPerType)
	}

	agg := managerAggregate{Squad: squad, Transfer: state, Chips: inv}
	if working, rolled := agg.Transfer.Rollover(gameweek, m.rules.Transfer); rolled {
		working.CreatedAt = squad.CreatedAt
		working.UpdatedAt = squad.UpdatedAt
		agg.Squad = working
		agg.RolledOver = true
	}

	if err := m.refreshPrices(ctx, &agg); err != nil {
		return managerAggregate{}, err
	}
	return agg, nil
}

func (m *managerStore) refreshPrices(ctx context.Context, agg *managerAggregate) error {
	ids := agg.Squad.PlayerIDs()
	for _, id := range agg.Transfer.Original.PlayerIDs() {
		if !agg.Squad.Has(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	players, err := m.players.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("get squad players manager=%s: %w", agg.Squad.ManagerID, err)
	}
	agg.Squad.RefreshPrices(players)
	agg.Transfer.Original.RefreshPrices(players)
	return nil
}

func (m *managerStore) save(ctx context.Context, agg managerAggregate) error {
	now := m.now().UTC()
	agg.Squad.UpdatedAt = now
	agg.Transfer.UpdatedAt = now
	agg.Chips.UpdatedAt = now

	if err := m.squads.Upsert(ctx, agg.Squad); err != nil {
		return fmt.Errorf("upsert squad manager=%s: %w", agg.Squad.ManagerID, err)
	}
	if err := m.transfers.Upsert(ctx, agg.Transfer); err != nil {
		return fmt.Errorf("upsert transfer state manager=%s: %w", agg.Squad.ManagerID, err)
	}
	if err := m.chips.Upsert(ctx, agg.Chips); err != nil {
		return fmt.Errorf("upsert chips manager=%s: %w", agg.Squad.ManagerID, err)
	}
	return nil
}
