package transfer

import (
	"fmt"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/economy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
)

// Market applies buy and confirm to a manager's working squad.
type Market struct {
	Rules      Rules
	SquadRules fantasy.Rules
}

func NewMarket(rules Rules, squadRules fantasy.Rules) Market {
	return Market{Rules: rules, SquadRules: squadRules}
}

// Buy swaps the selected outgoing player for in. Preconditions are checked in
// a fixed order and the first failure is returned.
func (m Market) Buy(status gameweek.Status, squad *fantasy.Squad, state *State, in player.Player) error {
	if status != gameweek.StatusActive {
		return fmt.Errorf("%w: gameweek is %s", ErrMarketClosed, status)
	}
	if state.PendingOut == "" {
		return ErrNoSelectionForSwap
	}
	outIdx := squad.IndexOf(state.PendingOut)
	if outIdx < 0 {
		return fmt.Errorf("%w: selected player %s is no longer in the squad", ErrNoSelectionForSwap, state.PendingOut)
	}
	if squad.Has(in.ID) {
		return fmt.Errorf("%w: %s", ErrPlayerAlreadyInSquad, in.ID)
	}

	out := squad.Players[outIdx]
	if in.Position != out.Position {
		return fmt.Errorf("%w: %s is %s, %s is %s", ErrPositionMismatch, in.ID, in.Position, out.PlayerID, out.Position)
	}

	sale := out.SellingPrice()
	available := sale.Add(squad.Bank)
	if available.LessThan(in.CurrentPrice) {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientFunds, in.CurrentPrice.StringFixed(1), economy.RoundPrice(available).StringFixed(1))
	}

	if n := squad.ClubCounts(out.PlayerID)[in.Club]; n >= m.Rules.MaxPerClub {
		return fmt.Errorf("%w: already %d players from %s", ErrClubQuotaExceeded, n, in.Club)
	}

	squad.Players[outIdx] = fantasy.SquadPlayer{
		PlayerID:      in.ID,
		Club:          in.Club,
		Position:      in.Position,
		CurrentPrice:  in.CurrentPrice,
		PurchasePrice: in.CurrentPrice,
	}
	squad.ReplacePlayerID(out.PlayerID, in.ID)
	squad.Bank = economy.RoundPrice(squad.Bank.Add(sale).Sub(in.CurrentPrice))
	state.ClearSelection()
	return nil
}

// Confirm commits the working squad. It returns the point cost recorded for
// the confirmed transfers.
func (m Market) Confirm(status gameweek.Status, squad fantasy.Squad, state *State, active chip.Type) (int, error) {
	if status != gameweek.StatusActive {
		return 0, fmt.Errorf("%w: gameweek is %s", ErrMarketClosed, status)
	}
	if err := fantasy.AsError(m.SquadRules.Validate(squad)); err != nil {
		return 0, err
	}

	net := state.NetTransfers(squad)
	cost := TransferCost(net, state.FreeTransfers, active, m.Rules.PointCostPerTransfer)

	state.Original = squad.Clone()
	state.FreeTransfers -= net
	if state.FreeTransfers < 0 {
		state.FreeTransfers = 0
	}
	state.ConfirmedTransferCost = cost
	state.GameweekPointsHit += cost
	state.PendingOut = ""
	return cost, nil
}
