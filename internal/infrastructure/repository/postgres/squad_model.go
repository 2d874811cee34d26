package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

type squadTableModel struct {
	ManagerID     string          `db:"manager_id"`
	CaptainID     string          `db:"captain_player_id"`
	ViceCaptainID string          `db:"vice_captain_player_id"`
	BenchOrder    string          `db:"bench_order"`
	Bank          decimal.Decimal `db:"bank"`
	TotalBudget   decimal.Decimal `db:"total_budget"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type squadPickTableModel struct {
	ManagerID     string          `db:"manager_id"`
	Slot          int             `db:"slot"`
	PlayerID      string          `db:"player_public_id"`
	Club          string          `db:"club"`
	Position      string          `db:"position"`
	CurrentPrice  decimal.Decimal `db:"current_price"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
}
