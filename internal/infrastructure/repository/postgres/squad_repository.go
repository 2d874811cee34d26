package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-rules-engine/internal/platform/querybuilder"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) GetByManager(ctx context.Context, managerID string) (fantasy.Squad, bool, error) {
	const squadQuery = `
SELECT manager_id, captain_player_id, vice_captain_player_id, bench_order::text AS bench_order,
       bank, total_budget, created_at, updated_at
FROM fantasy_squads
WHERE manager_id = $1`

	var squadRow squadTableModel
	if err := r.db.GetContext(ctx, &squadRow, squadQuery, managerID); err != nil {
		if isNotFound(err) {
			return fantasy.Squad{}, false, nil
		}
		return fantasy.Squad{}, false, fmt.Errorf("get squad manager=%s: %w", managerID, err)
	}

	const picksQuery = `
SELECT manager_id, slot, player_public_id, club, position, current_price, purchase_price
FROM fantasy_squad_picks
WHERE manager_id = $1
ORDER BY slot`

	var pickRows []squadPickTableModel
	if err := r.db.SelectContext(ctx, &pickRows, picksQuery, managerID); err != nil {
		return fantasy.Squad{}, false, fmt.Errorf("list squad picks manager=%s: %w", managerID, err)
	}

	squad, err := squadFromRows(squadRow, pickRows)
	if err != nil {
		return fantasy.Squad{}, false, err
	}
	return squad, true, nil
}

func (r *SquadRepository) ListManagerIDs(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("manager_id").From("fantasy_squads").OrderBy("manager_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list manager ids query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list manager ids: %w", err)
	}
	return ids, nil
}

// Upsert replaces the squad header and every pick in one transaction.
func (r *SquadRepository) Upsert(ctx context.Context, squad fantasy.Squad) error {
	header, picks, err := squadToRows(squad)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for squad upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertSquadQuery = `
INSERT INTO fantasy_squads (
    manager_id, captain_player_id, vice_captain_player_id, bench_order, bank, total_budget, created_at, updated_at
) VALUES (
    :manager_id, :captain_player_id, :vice_captain_player_id, CAST(:bench_order AS JSONB), :bank, :total_budget, :created_at, :updated_at
)
ON CONFLICT (manager_id)
DO UPDATE SET
    captain_player_id = EXCLUDED.captain_player_id,
    vice_captain_player_id = EXCLUDED.vice_captain_player_id,
    bench_order = EXCLUDED.bench_order,
    bank = EXCLUDED.bank,
    total_budget = EXCLUDED.total_budget,
    updated_at = EXCLUDED.updated_at`

	upsertSQL, upsertArgs, err := sqlx.Named(upsertSquadQuery, header)
	if err != nil {
		return fmt.Errorf("bind upsert fantasy squad query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(upsertSQL), upsertArgs...); err != nil {
		return fmt.Errorf("upsert fantasy squad manager=%s: %w", squad.ManagerID, err)
	}

	clearSQL, clearArgs, err := qb.DeleteFrom("fantasy_squad_picks").
		Where(qb.Eq("manager_id", squad.ManagerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear squad picks query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearSQL, clearArgs...); err != nil {
		return fmt.Errorf("clear squad picks manager=%s: %w", squad.ManagerID, err)
	}

	if len(picks) > 0 {
		insertSQL, insertArgs, err := qb.InsertModels("fantasy_squad_picks", picks)
		if err != nil {
			return fmt.Errorf("build insert squad picks query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return fmt.Errorf("insert squad picks manager=%s: %w", squad.ManagerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit squad upsert tx: %w", err)
	}
	return nil
}

func squadToRows(squad fantasy.Squad) (squadTableModel, []squadPickTableModel, error) {
	bench, err := encodeDocument(nonNilStrings(squad.BenchOrder))
	if err != nil {
		return squadTableModel{}, nil, fmt.Errorf("encode bench order manager=%s: %w", squad.ManagerID, err)
	}

	header := squadTableModel{
		ManagerID:     squad.ManagerID,
		CaptainID:     squad.CaptainID,
		ViceCaptainID: squad.ViceCaptainID,
		BenchOrder:    bench,
		Bank:          squad.Bank,
		TotalBudget:   squad.TotalBudget,
		CreatedAt:     squad.CreatedAt.UTC(),
		UpdatedAt:     squad.UpdatedAt.UTC(),
	}
	picks := make([]squadPickTableModel, 0, len(squad.Players))
	for i, p := range squad.Players {
		picks = append(picks, squadPickTableModel{
			ManagerID:     squad.ManagerID,
			Slot:          i,
			PlayerID:      p.PlayerID,
			Club:          p.Club,
			Position:      string(p.Position),
			CurrentPrice:  p.CurrentPrice,
			PurchasePrice: p.PurchasePrice,
		})
	}
	return header, picks, nil
}

func squadFromRows(header squadTableModel, picks []squadPickTableModel) (fantasy.Squad, error) {
	var bench []string
	if err := decodeDocument(header.BenchOrder, &bench); err != nil {
		return fantasy.Squad{}, fmt.Errorf("decode bench order manager=%s: %w", header.ManagerID, err)
	}

	players := make([]fantasy.SquadPlayer, 0, len(picks))
	for _, p := range picks {
		players = append(players, fantasy.SquadPlayer{
			PlayerID:      p.PlayerID,
			Club:          p.Club,
			Position:      player.Position(p.Position),
			CurrentPrice:  p.CurrentPrice,
			PurchasePrice: p.PurchasePrice,
		})
	}
	return fantasy.Squad{
		ManagerID:     header.ManagerID,
		Players:       players,
		CaptainID:     header.CaptainID,
		ViceCaptainID: header.ViceCaptainID,
		BenchOrder:    bench,
		Bank:          header.Bank,
		TotalBudget:   header.TotalBudget,
		CreatedAt:     header.CreatedAt,
		UpdatedAt:     header.UpdatedAt,
	}, nil
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
