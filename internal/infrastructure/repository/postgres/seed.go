package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-rules-engine/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo player pool and opens gameweek 1 when the
// database has no gameweek yet.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM gameweeks`); err != nil {
		return fmt.Errorf("count gameweeks for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	players := memory.SeedPlayers()
	for i := range players {
		players[i].UpdatedAt = now.UTC()
	}
	if err := NewPlayerRepository(db).UpsertMany(ctx, players); err != nil {
		return fmt.Errorf("seed players: %w", err)
	}
	if err := NewGameweekRepository(db).Upsert(ctx, memory.SeedGameweek(now)); err != nil {
		return fmt.Errorf("seed gameweek: %w", err)
	}
	return nil
}
