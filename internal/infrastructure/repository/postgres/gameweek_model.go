package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
)

type gameweekTableModel struct {
	Number      int          `db:"number"`
	Deadline    time.Time    `db:"deadline"`
	Status      string       `db:"status"`
	LockedAt    sql.NullTime `db:"locked_at"`
	FinalizedAt sql.NullTime `db:"finalized_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func (m gameweekTableModel) toDomain() gameweek.Gameweek {
	return gameweek.Gameweek{
		Number:      m.Number,
		Deadline:    m.Deadline.UTC(),
		Status:      gameweek.Status(m.Status),
		LockedAt:    nullTime(m.LockedAt),
		FinalizedAt: nullTime(m.FinalizedAt),
		UpdatedAt:   m.UpdatedAt,
	}
}

func gameweekModelFromDomain(gw gameweek.Gameweek) gameweekTableModel {
	return gameweekTableModel{
		Number:      gw.Number,
		Deadline:    gw.Deadline.UTC(),
		Status:      string(gw.Status),
		LockedAt:    toNullTime(gw.LockedAt),
		FinalizedAt: toNullTime(gw.FinalizedAt),
		UpdatedAt:   gw.UpdatedAt.UTC(),
	}
}
