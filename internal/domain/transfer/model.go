package transfer

import (
	"errors"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
)

var (
	ErrMarketClosed         = errors.New("transfer market closed")
	ErrNoSelectionForSwap   = errors.New("no outgoing player selected")
	ErrPositionMismatch     = errors.New("position mismatch")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrClubQuotaExceeded    = errors.New("club quota exceeded")
	ErrPlayerNotInSquad     = errors.New("player not in squad")
	ErrPlayerAlreadyInSquad = errors.New("player already in squad")
)

// Rules stores transfer market parameters.
type Rules struct {
	MaxPerClub           int
	PointCostPerTransfer int
	InitialFreeTransfers int
	MaxFreeTransfers     int
}

func DefaultRules() Rules {
	return Rules{
		MaxPerClub:           3,
		PointCostPerTransfer: 4,
		InitialFreeTransfers: 1,
		MaxFreeTransfers:     5,
	}
}

// State is a manager's transfer bookkeeping. Original is the squad as of the
// last confirmation; the working squad lives in the squad repository.
type State struct {
	ManagerID             string
	Gameweek              int
	Original              fantasy.Squad
	FreeTransfers         int
	ConfirmedTransferCost int
	// GameweekPointsHit sums every confirmed cost in Gameweek.
	GameweekPointsHit int
	PendingOut        string
	UpdatedAt         time.Time
}

func NewState(squad fantasy.Squad, gameweek int, rules Rules) State {
	return State{
		ManagerID:     squad.ManagerID,
		Gameweek:      gameweek,
		Original:      squad.Clone(),
		FreeTransfers: rules.InitialFreeTransfers,
	}
}

func (s State) Clone() State {
	copied := s
	copied.Original = s.Original.Clone()
	return copied
}

// NetTransfers counts working squad players that are not in Original.
func (s State) NetTransfers(working fantasy.Squad) int {
	net := 0
	for _, p := range working.Players {
		if !s.Original.Has(p.PlayerID) {
			net++
		}
	}
	return net
}

// TransferCost is the point deduction for net transfers beyond the free
// allowance, negated by wildcard and free hit.
func TransferCost(net, free int, active chip.Type, pointCost int) int {
	extra := net - free
	if extra < 0 {
		extra = 0
	}
	return extra * pointCost * chip.CostMultiplierFor(active)
}

func (s *State) SelectOutgoing(working fantasy.Squad, playerID string) error {
	if !working.Has(playerID) {
		return ErrPlayerNotInSquad
	}
	s.PendingOut = playerID
	return nil
}

func (s *State) ClearSelection() {
	s.PendingOut = ""
}

// Reset discards unconfirmed changes and returns the confirmed squad.
func (s *State) Reset() fantasy.Squad {
	s.PendingOut = ""
	return s.Original.Clone()
}

// Rollover moves the state into a later gameweek. Unconfirmed changes are
// dropped, one free transfer is banked for every gameweek passed, up to the
// maximum, and the per gameweek costs are cleared. It returns the squad the
// manager starts the new gameweek with.
func (s *State) Rollover(gameweek int, rules Rules) (fantasy.Squad, bool) {
	if gameweek <= s.Gameweek {
		return fantasy.Squad{}, false
	}

	s.FreeTransfers += gameweek - s.Gameweek
	if s.FreeTransfers > rules.MaxFreeTransfers {
		s.FreeTransfers = rules.MaxFreeTransfers
	}
	s.Gameweek = gameweek
	s.ConfirmedTransferCost = 0
	s.GameweekPointsHit = 0
	s.PendingOut = ""
	return s.Original.Clone(), true
}

// PointsHitFor returns the transfer cost to subtract from gameweek's score.
func (s State) PointsHitFor(gameweek int) int {
	if s.Gameweek != gameweek {
		return 0
	}
	return s.GameweekPointsHit
}
