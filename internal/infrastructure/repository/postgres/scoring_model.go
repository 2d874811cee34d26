package postgres

import "time"

type playerFixtureScoreTableModel struct {
	Gameweek  int       `db:"gameweek"`
	FixtureID string    `db:"fixture_id"`
	PlayerID  string    `db:"player_public_id"`
	Position  string    `db:"position"`
	Stats     string    `db:"stats"`
	Breakdown string    `db:"breakdown"`
	Points    int       `db:"points"`
	ScoredAt  time.Time `db:"scored_at"`
}

type managerPointsTableModel struct {
	ManagerID    string    `db:"manager_id"`
	Gameweek     int       `db:"gameweek"`
	Chip         string    `db:"chip"`
	Players      string    `db:"players"`
	GrossPoints  int       `db:"gross_points"`
	TransferCost int       `db:"transfer_cost"`
	TotalPoints  int       `db:"total_points"`
	CalculatedAt time.Time `db:"calculated_at"`
}
