package fantasy

import (
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/economy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/shopspring/decimal"
)

// SquadPlayer is one owned player. PurchasePrice is fixed at acquisition and
// only changes when the player is sold and bought again.
type SquadPlayer struct {
	PlayerID      string
	Club          string
	Position      player.Position
	CurrentPrice  decimal.Decimal
	PurchasePrice decimal.Decimal
}

func (p SquadPlayer) SellingPrice() decimal.Decimal {
	return economy.SellingPrice(p.CurrentPrice, p.PurchasePrice)
}

// Squad is a manager's 15-player selection for the season.
type Squad struct {
	ManagerID     string
	Players       []SquadPlayer
	CaptainID     string
	ViceCaptainID string
	// BenchOrder holds the non-starting player IDs, first substitute first.
	BenchOrder  []string
	Bank        decimal.Decimal
	TotalBudget decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Squad) Clone() Squad {
	copied := s
	copied.Players = append([]SquadPlayer(nil), s.Players...)
	copied.BenchOrder = append([]string(nil), s.BenchOrder...)
	return copied
}

// IndexOf returns the slot of playerID or -1.
func (s Squad) IndexOf(playerID string) int {
	for i, p := range s.Players {
		if p.PlayerID == playerID {
			return i
		}
	}
	return -1
}

func (s Squad) Has(playerID string) bool {
	return s.IndexOf(playerID) >= 0
}

func (s Squad) PlayerIDs() []string {
	out := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, p.PlayerID)
	}
	return out
}

func (s Squad) IsBenched(playerID string) bool {
	for _, id := range s.BenchOrder {
		if id == playerID {
			return true
		}
	}
	return false
}

// Starters returns every squad player not listed in BenchOrder.
func (s Squad) Starters() []SquadPlayer {
	bench := make(map[string]struct{}, len(s.BenchOrder))
	for _, id := range s.BenchOrder {
		bench[id] = struct{}{}
	}

	out := make([]SquadPlayer, 0, len(s.Players))
	for _, p := range s.Players {
		if _, ok := bench[p.PlayerID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ClubCounts counts players per club, optionally skipping one player.
func (s Squad) ClubCounts(excludePlayerID string) map[string]int {
	out := make(map[string]int)
	for _, p := range s.Players {
		if excludePlayerID != "" && p.PlayerID == excludePlayerID {
			continue
		}
		out[p.Club]++
	}
	return out
}

// Value is the sum of current prices of every squad player.
func (s Squad) Value() decimal.Decimal {
	prices := make([]decimal.Decimal, 0, len(s.Players))
	for _, p := range s.Players {
		prices = append(prices, p.CurrentPrice)
	}
	return economy.Sum(prices...)
}

// ReplacePlayerID moves lineup references from one player to another.
func (s *Squad) ReplacePlayerID(oldID, newID string) {
	if s.CaptainID == oldID {
		s.CaptainID = newID
	}
	if s.ViceCaptainID == oldID {
		s.ViceCaptainID = newID
	}
	for i, id := range s.BenchOrder {
		if id == oldID {
			s.BenchOrder[i] = newID
		}
	}
}

// RefreshPrices overlays the latest market prices onto owned players.
func (s *Squad) RefreshPrices(players []player.Player) {
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	for i := range s.Players {
		if p, ok := byID[s.Players[i].PlayerID]; ok {
			s.Players[i].CurrentPrice = p.CurrentPrice
		}
	}
}
