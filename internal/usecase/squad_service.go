package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/economy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
)

// CreateSquadInput is the incoming payload for a new manager squad.
type CreateSquadInput struct {
	ManagerID     string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
	BenchOrder    []string
}

// DraftSquadInput describes a squad to validate without storing it.
type DraftSquadInput struct {
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
	BenchOrder    []string
}

type UpdateLineupInput struct {
	ManagerID     string
	CaptainID     string
	ViceCaptainID string
	BenchOrder    []string
}

// ManagerView is the read model of one manager in the current gameweek.
type ManagerView struct {
	Gameweek     gameweek.Gameweek
	Squad        fantasy.Squad
	Transfer     transfer.State
	Chips        chip.Inventory
	ActiveChip   chip.Type
	NetTransfers int
	PendingCost  int
}

type SquadService struct {
	gameweeks *GameweekService
	store     *managerStore
	rules     EngineRules
	logger    *logging.Logger
	now       func() time.Time
}

func NewSquadService(
	gameweeks *GameweekService,
	players player.Repository,
	squads fantasy.Repository,
	transfers transfer.Repository,
	chips chip.Repository,
	rules EngineRules,
	logger *logging.Logger,
) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SquadService{
		gameweeks: gameweeks,
		store:     newManagerStore(squads, transfers, chips, players, rules),
		rules:     rules,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *SquadService) CreateSquad(ctx context.Context, input CreateSquadInput) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.CreateSquad")
	defer span.End()

	managerID, err := normalizeManagerID(input.ManagerID)
	if err != nil {
		return fantasy.Squad{}, err
	}
	if len(input.PlayerIDs) == 0 {
		return fantasy.Squad{}, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}

	var (
		created        fantasy.Squad
		gameweekNumber int
	)
	err = s.store.withManager(managerID, func() error {
		gw, err := s.gameweeks.OpenForMutation(ctx)
		if err != nil {
			return err
		}
		exists, err := s.store.exists(ctx, managerID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: squad for manager=%s", ErrAlreadyExists, managerID)
		}

		squad, err := s.buildSquad(ctx, DraftSquadInput{
			PlayerIDs:     input.PlayerIDs,
			CaptainID:     input.CaptainID,
			ViceCaptainID: input.ViceCaptainID,
			BenchOrder:    input.BenchOrder,
		})
		if err != nil {
			return err
		}
		squad.ManagerID = managerID
		squad.CreatedAt = s.now().UTC()

		if err := fantasy.AsError(s.rules.Squad.Validate(squad)); err != nil {
			s.logger.InfoContext(ctx, "squad rejected", "manager_id", managerID, "error", err)
			return err
		}

		agg := managerAggregate{
			Squad:    squad,
			Transfer: transfer.NewState(squad, gw.Number, s.rules.Transfer),
			Chips:    chip.NewInventory(managerID, s.rules.ChipsPerType),
		}
		if err := s.store.save(ctx, agg); err != nil {
			return err
		}
		created = agg.Squad
		gameweekNumber = gw.Number
		return nil
	})
	if err != nil {
		return fantasy.Squad{}, err
	}

	s.logger.InfoContext(ctx, "squad created", "manager_id", managerID, "gameweek", gameweekNumber, "bank", created.Bank)
	return created, nil
}

// GetManager returns the manager as seen in the current gameweek. A pending
// weekly rollover is applied to the result but not stored.
func (s *SquadService) GetManager(ctx context.Context, managerID string) (ManagerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.GetManager")
	defer span.End()

	managerID, err := normalizeManagerID(managerID)
	if err != nil {
		return ManagerView{}, err
	}
	gw, err := s.gameweeks.Current(ctx)
	if err != nil {
		return ManagerView{}, err
	}
	agg, err := s.store.load(ctx, managerID, gw.Number)
	if err != nil {
		return ManagerView{}, err
	}

	active, _ := agg.Chips.ActiveFor(gw.Number)
	net := agg.Transfer.NetTransfers(agg.Squad)
	return ManagerView{
		Gameweek:     gw,
		Squad:        agg.Squad,
		Transfer:     agg.Transfer,
		Chips:        agg.Chips,
		ActiveChip:   active,
		NetTransfers: net,
		PendingCost:  transfer.TransferCost(net, agg.Transfer.FreeTransfers, active, s.rules.Transfer.PointCostPerTransfer),
	}, nil
}

func (s *SquadService) GetSquad(ctx context.Context, managerID string) (fantasy.Squad, error) {
	view, err := s.GetManager(ctx, managerID)
	if err != nil {
		return fantasy.Squad{}, err
	}
	return view.Squad, nil
}

// ValidateDraft prices a candidate squad at current prices against the full
// budget and returns every rule issue.
func (s *SquadService) ValidateDraft(ctx context.Context, input DraftSquadInput) ([]fantasy.Issue, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.ValidateDraft")
	defer span.End()

	squad, err := s.buildSquad(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.rules.Squad.Validate(squad), nil
}

// ValidateManagerSquad validates the manager's working squad.
func (s *SquadService) ValidateManagerSquad(ctx context.Context, managerID string) ([]fantasy.Issue, error) {
	view, err := s.GetManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return s.rules.Squad.Validate(view.Squad), nil
}

// UpdateLineup changes captaincy and bench order. With no unconfirmed
// transfers the confirmed squad gets the same lineup.
func (s *SquadService) UpdateLineup(ctx context.Context, input UpdateLineupInput) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.UpdateLineup")
	defer span.End()

	managerID, err := normalizeManagerID(input.ManagerID)
	if err != nil {
		return fantasy.Squad{}, err
	}

	var updated fantasy.Squad
	err = s.store.withManager(managerID, func() error {
		gw, err := s.gameweeks.OpenForMutation(ctx)
		if err != nil {
			return err
		}
		agg, err := s.store.load(ctx, managerID, gw.Number)
		if err != nil {
			return err
		}

		agg.Squad.CaptainID = strings.TrimSpace(input.CaptainID)
		agg.Squad.ViceCaptainID = strings.TrimSpace(input.ViceCaptainID)
		agg.Squad.BenchOrder = trimIDs(input.BenchOrder)
		if err := fantasy.AsError(s.rules.Squad.Validate(agg.Squad)); err != nil {
			s.logger.InfoContext(ctx, "lineup rejected", "manager_id", managerID, "error", err)
			return err
		}

		if agg.Transfer.NetTransfers(agg.Squad) == 0 {
			agg.Transfer.Original.CaptainID = agg.Squad.CaptainID
			agg.Transfer.Original.ViceCaptainID = agg.Squad.ViceCaptainID
			agg.Transfer.Original.BenchOrder = append([]string(nil), agg.Squad.BenchOrder...)
		}
		if err := s.store.save(ctx, agg); err != nil {
			return err
		}
		updated = agg.Squad
		return nil
	})
	if err != nil {
		return fantasy.Squad{}, err
	}
	return updated, nil
}

func (s *SquadService) buildSquad(ctx context.Context, input DraftSquadInput) (fantasy.Squad, error) {
	ids := trimIDs(input.PlayerIDs)
	players, err := s.store.players.GetByIDs(ctx, ids)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get players by ids: %w", err)
	}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	squadPlayers := make([]fantasy.SquadPlayer, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return fantasy.Squad{}, fmt.Errorf("%w: player=%s", ErrNotFound, id)
		}
		squadPlayers = append(squadPlayers, fantasy.SquadPlayer{
			PlayerID:      p.ID,
			Club:          p.Club,
			Position:      p.Position,
			CurrentPrice:  p.CurrentPrice,
			PurchasePrice: p.CurrentPrice,
		})
	}

	squad := fantasy.Squad{
		Players:       squadPlayers,
		CaptainID:     strings.TrimSpace(input.CaptainID),
		ViceCaptainID: strings.TrimSpace(input.ViceCaptainID),
		BenchOrder:    trimIDs(input.BenchOrder),
		TotalBudget:   s.rules.Squad.TotalBudget,
	}
	squad.Bank = economy.RoundPrice(s.rules.Squad.TotalBudget.Sub(squad.Value()))
	return squad, nil
}

func trimIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
