package postgres

import "time"

type chipInventoryTableModel struct {
	ManagerID      string    `db:"manager_id"`
	Counts         string    `db:"counts"`
	Active         string    `db:"active_chip"`
	ActiveGameweek int       `db:"active_gameweek"`
	Committed      bool      `db:"committed"`
	UpdatedAt      time.Time `db:"updated_at"`
}
