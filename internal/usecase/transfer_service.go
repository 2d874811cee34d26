package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/shopspring/decimal"
)

type BuyInput struct {
	ManagerID  string
	PlayerInID string
	// PlayerOutID optionally selects the outgoing player in the same call.
	PlayerOutID string
}

type ConfirmResult struct {
	Gameweek          int
	NetTransfers      int
	Cost              int
	FreeTransfers     int
	GameweekPointsHit int
	Chip              chip.Type
}

type TransferService struct {
	gameweeks *GameweekService
	store     *managerStore
	market    transfer.Market
	rules     EngineRules
	logger    *logging.Logger
}

func NewTransferService(
	gameweeks *GameweekService,
	squads *SquadService,
	logger *logging.Logger,
) *TransferService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TransferService{
		gameweeks: gameweeks,
		store:     squads.store,
		market:    squads.rules.market(),
		rules:     squads.rules,
		logger:    logger,
	}
}

func (s *TransferService) GetState(ctx context.Context, managerID string) (transfer.State, error) {
	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return transfer.State{}, err
	}
	gw, err := s.gameweeks.Current(ctx)
	if err != nil {
		return transfer.State{}, err
	}
	agg, err := s.store.load(ctx, managerID, gw.Number)
	if err != nil {
		return transfer.State{}, err
	}
	return agg.Transfer, nil
}

func (s *TransferService) SelectOutgoing(ctx context.Context, managerID, playerID string) (transfer.State, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.SelectOutgoing")
	defer span.End()

	var out transfer.State
	err := s.mutate(ctx, managerID, func(_ gameweek.Gameweek, agg *managerAggregate) error {
		if err := agg.Transfer.SelectOutgoing(agg.Squad, strings.TrimSpace(playerID)); err != nil {
			return fmt.Errorf("%w: player=%s", err, playerID)
		}
		out = agg.Transfer
		return nil
	})
	return out, err
}

func (s *TransferService) ClearSelection(ctx context.Context, managerID string) (transfer.State, error) {
	var out transfer.State
	err := s.mutate(ctx, managerID, func(_ gameweek.Gameweek, agg *managerAggregate) error {
		agg.Transfer.ClearSelection()
		out = agg.Transfer
		return nil
	})
	return out, err
}

// Buy swaps the selected outgoing player for the incoming one. While the
// gameweek is locked it fails with transfer.ErrMarketClosed wrapping
// gameweek.ErrGameweekLocked.
func (s *TransferService) Buy(ctx context.Context, input BuyInput) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Buy")
	defer span.End()

	inID := strings.TrimSpace(input.PlayerInID)
	if inID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: incoming player id is required", ErrInvalidInput)
	}

	var out fantasy.Squad
	err := s.mutate(ctx, input.ManagerID, func(gw gameweek.Gameweek, agg *managerAggregate) error {
		if outID := strings.TrimSpace(input.PlayerOutID); outID != "" {
			if err := agg.Transfer.SelectOutgoing(agg.Squad, outID); err != nil {
				return fmt.Errorf("%w: player=%s", err, outID)
			}
		}

		in, err := s.getPlayer(ctx, inID)
		if err != nil {
			return err
		}
		if err := s.market.Buy(gw.Status, &agg.Squad, &agg.Transfer, in); err != nil {
			return err
		}
		out = agg.Squad
		return nil
	})
	if err != nil {
		s.logRejection(ctx, "buy rejected", input.ManagerID, err)
		return fantasy.Squad{}, err
	}

	s.logger.InfoContext(ctx, "player bought", "manager_id", out.ManagerID, "player_id", inID, "bank", out.Bank)
	return out, nil
}

// Confirm commits the working squad and charges the transfer cost.
func (s *TransferService) Confirm(ctx context.Context, managerID string) (ConfirmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Confirm")
	defer span.End()

	var result ConfirmResult
	err := s.mutate(ctx, managerID, func(gw gameweek.Gameweek, agg *managerAggregate) error {
		active, _ := agg.Chips.ActiveFor(gw.Number)
		net := agg.Transfer.NetTransfers(agg.Squad)

		cost, err := s.market.Confirm(gw.Status, agg.Squad, &agg.Transfer, active)
		if err != nil {
			return err
		}
		if s.rules.ChipPolicy == chip.DeductOnCommit && chip.CostMultiplierFor(active) == 0 {
			agg.Chips.Commit(gw.Number)
		}

		result = ConfirmResult{
			Gameweek:          gw.Number,
			NetTransfers:      net,
			Cost:              cost,
			FreeTransfers:     agg.Transfer.FreeTransfers,
			GameweekPointsHit: agg.Transfer.GameweekPointsHit,
			Chip:              active,
		}
		return nil
	})
	if err != nil {
		s.logRejection(ctx, "confirm rejected", managerID, err)
		return ConfirmResult{}, err
	}

	s.logger.InfoContext(ctx, "transfers confirmed",
		"manager_id", managerID,
		"gameweek", result.Gameweek,
		"net", result.NetTransfers,
		"cost", result.Cost,
	)
	return result, nil
}

// Reset discards unconfirmed changes and restores the confirmed squad.
func (s *TransferService) Reset(ctx context.Context, managerID string) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Reset")
	defer span.End()

	var out fantasy.Squad
	err := s.mutate(ctx, managerID, func(_ gameweek.Gameweek, agg *managerAggregate) error {
		restored := agg.Transfer.Reset()
		restored.CreatedAt = agg.Squad.CreatedAt
		agg.Squad = restored
		out = restored
		return nil
	})
	return out, err
}

// SellingPrice returns what the manager would receive for an owned player.
func (s *TransferService) SellingPrice(ctx context.Context, managerID, playerID string) (decimal.Decimal, error) {
	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return decimal.Zero, err
	}
	gw, err := s.gameweeks.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	agg, err := s.store.load(ctx, managerID, gw.Number)
	if err != nil {
		return decimal.Zero, err
	}
	idx := agg.Squad.IndexOf(strings.TrimSpace(playerID))
	if idx < 0 {
		return decimal.Zero, fmt.Errorf("%w: player=%s", transfer.ErrPlayerNotInSquad, playerID)
	}
	return agg.Squad.Players[idx].SellingPrice(), nil
}

// mutate runs fn on the manager aggregate under the manager lock and stores
// the result. The gameweek is checked once the lock is held. A locked
// gameweek surfaces as transfer.ErrMarketClosed.
func (s *TransferService) mutate(ctx context.Context, managerID string, fn func(gameweek.Gameweek, *managerAggregate) error) error {
	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return err
	}
	return s.store.withManager(managerID, func() error {
		gw, err := s.gameweeks.OpenForMutation(ctx)
		if err != nil {
			if errors.Is(err, gameweek.ErrGameweekLocked) {
				return fmt.Errorf("%w: %w", transfer.ErrMarketClosed, err)
			}
			return err
		}
		agg, err := s.store.load(ctx, managerID, gw.Number)
		if err != nil {
			return err
		}
		if err := fn(gw, &agg); err != nil {
			return err
		}
		return s.store.save(ctx, agg)
	})
}

func (s *TransferService) getPlayer(ctx context.Context, playerID string) (player.Player, error) {
	p, exists, err := s.store.players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player=%s: %w", playerID, err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return p, nil
}

func (s *TransferService) logRejection(ctx context.Context, msg, managerID string, err error) {
	if isRuleRejection(err) {
		s.logger.DebugContext(ctx, msg, "manager_id", managerID, "error", err)
		return
	}
	s.logger.WarnContext(ctx, msg, "manager_id", managerID, "error", err)
}

// isRuleRejection reports errors that are an expected answer of the game
// rules rather than a failure.
func isRuleRejection(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		ErrNotFound,
		ErrAlreadyExists,
		gameweek.ErrGameweekLocked,
		gameweek.ErrInvalidTransition,
		fantasy.ErrInvalidSquad,
		chip.ErrInvalidChip,
		transfer.ErrMarketClosed,
		transfer.ErrNoSelectionForSwap,
		transfer.ErrPositionMismatch,
		transfer.ErrInsufficientFunds,
		transfer.ErrClubQuotaExceeded,
		transfer.ErrPlayerNotInSquad,
		transfer.ErrPlayerAlreadyInSquad,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
