package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/shopspring/decimal"
)

type playerTableModel struct {
	PublicID           string          `db:"public_id"`
	Name               string          `db:"name"`
	Club               string          `db:"club"`
	Position           string          `db:"position"`
	Price              decimal.Decimal `db:"price"`
	Status             string          `db:"status"`
	TotalPoints        int             `db:"total_points"`
	PointsLastGameweek int             `db:"points_last_gameweek"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:                 m.PublicID,
		Name:               m.Name,
		Club:               m.Club,
		Position:           player.Position(m.Position),
		CurrentPrice:       m.Price,
		Status:             player.Status(m.Status),
		TotalPoints:        m.TotalPoints,
		PointsLastGameweek: m.PointsLastGameweek,
		UpdatedAt:          m.UpdatedAt,
	}
}

func playerModelFromDomain(p player.Player) playerTableModel {
	return playerTableModel{
		PublicID:           p.ID,
		Name:               p.Name,
		Club:               p.Club,
		Position:           string(p.Position),
		Price:              p.CurrentPrice,
		Status:             string(p.Status),
		TotalPoints:        p.TotalPoints,
		PointsLastGameweek: p.PointsLastGameweek,
		UpdatedAt:          p.UpdatedAt.UTC(),
	}
}
