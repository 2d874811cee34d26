package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/economy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/shopspring/decimal"
)

type PlayerFilter struct {
	Position player.Position
	Club     string
}

// PlayerMarketUpdate changes a player's price or status. Nil fields are left
// as they are.
type PlayerMarketUpdate struct {
	PlayerID string
	Price    *decimal.Decimal
	Status   *player.Status
}

type PlayerService struct {
	gameweeks  *GameweekService
	playerRepo player.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewPlayerService(gameweeks *GameweekService, playerRepo player.Repository, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerService{
		gameweeks:  gameweeks,
		playerRepo: playerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *PlayerService) ListPlayers(ctx context.Context, filter PlayerFilter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	if filter.Position != "" && !filter.Position.Valid() {
		return nil, fmt.Errorf("%w: %w: %s", ErrInvalidInput, player.ErrUnknownPosition, filter.Position)
	}
	club := strings.TrimSpace(filter.Club)

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(players))
	for _, p := range players {
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		if club != "" && !strings.EqualFold(p.Club, club) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return item, nil
}

// ImportPlayers adds or replaces players in the pool. New players need a
// full record; it is meant for season setup and feed additions.
func (s *PlayerService) ImportPlayers(ctx context.Context, players []player.Player) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ImportPlayers")
	defer span.End()

	now := s.now().UTC()
	for i := range players {
		players[i].ID = strings.TrimSpace(players[i].ID)
		if err := players[i].Validate(); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		players[i].UpdatedAt = now
	}
	if len(players) == 0 {
		return 0, nil
	}
	if err := s.playerRepo.UpsertMany(ctx, players); err != nil {
		return 0, fmt.Errorf("upsert players: %w", err)
	}
	return len(players), nil
}

// UpdateMarket applies price and status changes between gameweeks. It is
// gated like any other mutation.
func (s *PlayerService) UpdateMarket(ctx context.Context, updates []PlayerMarketUpdate) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.UpdateMarket")
	defer span.End()

	if len(updates) == 0 {
		return nil, nil
	}
	if _, err := s.gameweeks.OpenForMutation(ctx); err != nil {
		return nil, err
	}

	byID := make(map[string]PlayerMarketUpdate, len(updates))
	ids := make([]string, 0, len(updates))
	for _, u := range updates {
		u.PlayerID = strings.TrimSpace(u.PlayerID)
		if u.PlayerID == "" {
			return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
		}
		if u.Price != nil && !u.Price.IsPositive() {
			return nil, fmt.Errorf("%w: price for player %s must be positive", ErrInvalidInput, u.PlayerID)
		}
		if u.Status != nil && !u.Status.Valid() {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidInput, player.ErrUnknownStatus, *u.Status)
		}
		if _, dup := byID[u.PlayerID]; !dup {
			ids = append(ids, u.PlayerID)
		}
		byID[u.PlayerID] = u
	}

	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}
	if len(players) != len(ids) {
		found := make(map[string]struct{}, len(players))
		for _, p := range players {
			found[p.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, fmt.Errorf("%w: player=%s", ErrNotFound, id)
			}
		}
	}

	now := s.now().UTC()
	for i := range players {
		u := byID[players[i].ID]
		if u.Price != nil {
			players[i].CurrentPrice = economy.RoundPrice(*u.Price)
		}
		if u.Status != nil {
			players[i].Status = *u.Status
		}
		players[i].UpdatedAt = now
	}
	if err := s.playerRepo.UpsertMany(ctx, players); err != nil {
		return nil, fmt.Errorf("update players: %w", err)
	}

	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	s.logger.InfoContext(ctx, "player market updated", "players", len(players))
	return players, nil
}
