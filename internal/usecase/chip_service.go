package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
)

type ChipService struct {
	gameweeks *GameweekService
	store     *managerStore
	policy    chip.DeductionPolicy
	logger    *logging.Logger
}

func NewChipService(gameweeks *GameweekService, squads *SquadService, logger *logging.Logger) *ChipService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChipService{
		gameweeks: gameweeks,
		store:     squads.store,
		policy:    squads.rules.ChipPolicy,
		logger:    logger,
	}
}

func (s *ChipService) Get(ctx context.Context, managerID string) (chip.Inventory, error) {
	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return chip.Inventory{}, err
	}
	gw, err := s.gameweeks.Current(ctx)
	if err != nil {
		return chip.Inventory{}, err
	}
	agg, err := s.store.load(ctx, managerID, gw.Number)
	if err != nil {
		return chip.Inventory{}, err
	}
	return agg.Chips, nil
}

// Activate plays a chip for the current gameweek.
func (s *ChipService) Activate(ctx context.Context, managerID, rawType string) (chip.Inventory, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChipService.Activate")
	defer span.End()

	t, err := chip.ParseType(rawType)
	if err != nil {
		return chip.Inventory{}, err
	}

	var out chip.Inventory
	err = s.mutate(ctx, managerID, func(gameweekNumber int, inv *chip.Inventory) error {
		if err := inv.Activate(t, gameweekNumber, s.policy); err != nil {
			return err
		}
		out = *inv
		return nil
	})
	if err != nil {
		s.logger.DebugContext(ctx, "chip activation rejected", "manager_id", managerID, "chip", t, "error", err)
		return chip.Inventory{}, err
	}

	s.logger.InfoContext(ctx, "chip activated", "manager_id", managerID, "chip", t, "gameweek", out.ActiveGameweek)
	return out, nil
}

// Deactivate clears the active chip. The bool reports whether the chip went
// back into the inventory.
func (s *ChipService) Deactivate(ctx context.Context, managerID string) (chip.Inventory, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChipService.Deactivate")
	defer span.End()

	var (
		out      chip.Inventory
		returned bool
	)
	err := s.mutate(ctx, managerID, func(gameweekNumber int, inv *chip.Inventory) error {
		ok, err := inv.Deactivate(gameweekNumber)
		if err != nil {
			return err
		}
		returned = ok
		out = *inv
		return nil
	})
	if err != nil {
		return chip.Inventory{}, false, err
	}
	return out, returned, nil
}

func (s *ChipService) mutate(ctx context.Context, managerID string, fn func(int, *chip.Inventory) error) error {
	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return err
	}
	return s.store.withManager(managerID, func() error {
		gw, err := s.gameweeks.OpenForMutation(ctx)
		if err != nil {
			return err
		}
		agg, err := s.store.load(ctx, managerID, gw.Number)
		if err != nil {
			return err
		}
		if err := fn(gw.Number, &agg.Chips); err != nil {
			return err
		}
		return s.store.save(ctx, agg)
	})
}
