package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/shopspring/decimal"
)

type transferStateTableModel struct {
	ManagerID             string    `db:"manager_id"`
	Gameweek              int       `db:"gameweek"`
	OriginalSquad         string    `db:"original_squad"`
	FreeTransfers         int       `db:"free_transfers"`
	ConfirmedTransferCost int       `db:"confirmed_transfer_cost"`
	GameweekPointsHit     int       `db:"gameweek_points_hit"`
	PendingOut            string    `db:"pending_out_player_id"`
	UpdatedAt             time.Time `db:"updated_at"`
}

// squadDocument is the JSONB shape of the confirmed squad snapshot.
type squadDocument struct {
	ManagerID     string                `json:"manager_id"`
	Players       []squadPlayerDocument `json:"players"`
	CaptainID     string                `json:"captain_id"`
	ViceCaptainID string                `json:"vice_captain_id"`
	BenchOrder    []string              `json:"bench_order"`
	Bank          decimal.Decimal       `json:"bank"`
	TotalBudget   decimal.Decimal       `json:"total_budget"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

type squadPlayerDocument struct {
	PlayerID      string          `json:"player_id"`
	Club          string          `json:"club"`
	Position      string          `json:"position"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

func squadDocumentFromDomain(s fantasy.Squad) squadDocument {
	players := make([]squadPlayerDocument, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, squadPlayerDocument{
			PlayerID:      p.PlayerID,
			Club:          p.Club,
			Position:      string(p.Position),
			CurrentPrice:  p.CurrentPrice,
			PurchasePrice: p.PurchasePrice,
		})
	}
	return squadDocument{
		ManagerID:     s.ManagerID,
		Players:       players,
		CaptainID:     s.CaptainID,
		ViceCaptainID: s.ViceCaptainID,
		BenchOrder:    nonNilStrings(s.BenchOrder),
		Bank:          s.Bank,
		TotalBudget:   s.TotalBudget,
		CreatedAt:     s.CreatedAt.UTC(),
		UpdatedAt:     s.UpdatedAt.UTC(),
	}
}

func (d squadDocument) toDomain() fantasy.Squad {
	players := make([]fantasy.SquadPlayer, 0, len(d.Players))
	for _, p := range d.Players {
		players = append(players, fantasy.SquadPlayer{
			PlayerID:      p.PlayerID,
			Club:          p.Club,
			Position:      player.Position(p.Position),
			CurrentPrice:  p.CurrentPrice,
			PurchasePrice: p.PurchasePrice,
		})
	}
	return fantasy.Squad{
		ManagerID:     d.ManagerID,
		Players:       players,
		CaptainID:     d.CaptainID,
		ViceCaptainID: d.ViceCaptainID,
		BenchOrder:    d.BenchOrder,
		Bank:          d.Bank,
		TotalBudget:   d.TotalBudget,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
