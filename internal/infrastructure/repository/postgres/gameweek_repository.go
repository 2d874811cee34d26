package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	qb "github.com/riskibarqy/fantasy-rules-engine/internal/platform/querybuilder"
)

type GameweekRepository struct {
	db *sqlx.DB
}

var gameweekSelectColumns = []string{
	"number",
	"deadline",
	"status",
	"locked_at",
	"finalized_at",
	"updated_at",
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) GetCurrent(ctx context.Context) (gameweek.Gameweek, bool, error) {
	query, args, err := qb.Select(gameweekSelectColumns...).From("gameweeks").
		OrderBy("number DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("build select current gameweek query: %w", err)
	}
	return r.get(ctx, query, args)
}

func (r *GameweekRepository) GetByNumber(ctx context.Context, number int) (gameweek.Gameweek, bool, error) {
	query, args, err := qb.Select(gameweekSelectColumns...).From("gameweeks").
		Where(qb.Eq("number", number)).
		ToSQL()
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("build select gameweek query: %w", err)
	}
	return r.get(ctx, query, args)
}

func (r *GameweekRepository) Upsert(ctx context.Context, gw gameweek.Gameweek) error {
	query, args, err := qb.UpsertModel("gameweeks", gameweekModelFromDomain(gw), "number")
	if err != nil {
		return fmt.Errorf("build upsert gameweek query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert gameweek=%d: %w", gw.Number, err)
	}
	return nil
}

func (r *GameweekRepository) get(ctx context.Context, query string, args []any) (gameweek.Gameweek, bool, error) {
	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("get gameweek: %w", err)
	}
	return row.toDomain(), true, nil
}
