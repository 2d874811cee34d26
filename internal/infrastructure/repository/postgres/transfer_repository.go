package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
)

type TransferRepository struct {
	db *sqlx.DB
}

func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) GetByManager(ctx context.Context, managerID string) (transfer.State, bool, error) {
	const query = `
SELECT manager_id, gameweek, original_squad::text AS original_squad, free_transfers,
       confirmed_transfer_cost, gameweek_points_hit, pending_out_player_id, updated_at
FROM transfer_states
WHERE manager_id = $1`

	var row transferStateTableModel
	if err := r.db.GetContext(ctx, &row, query, managerID); err != nil {
		if isNotFound(err) {
			return transfer.State{}, false, nil
		}
		return transfer.State{}, false, fmt.Errorf("get transfer state manager=%s: %w", managerID, err)
	}

	var original squadDocument
	if err := decodeDocument(row.OriginalSquad, &original); err != nil {
		return transfer.State{}, false, fmt.Errorf("decode original squad manager=%s: %w", managerID, err)
	}
	return transfer.State{
		ManagerID:             row.ManagerID,
		Gameweek:              row.Gameweek,
		Original:              original.toDomain(),
		FreeTransfers:         row.FreeTransfers,
		ConfirmedTransferCost: row.ConfirmedTransferCost,
		GameweekPointsHit:     row.GameweekPointsHit,
		PendingOut:            row.PendingOut,
		UpdatedAt:             row.UpdatedAt,
	}, true, nil
}

func (r *TransferRepository) Upsert(ctx context.Context, state transfer.State) error {
	original, err := encodeDocument(squadDocumentFromDomain(state.Original))
	if err != nil {
		return fmt.Errorf("encode original squad manager=%s: %w", state.ManagerID, err)
	}

	const query = `
INSERT INTO transfer_states (
    manager_id, gameweek, original_squad, free_transfers, confirmed_transfer_cost,
    gameweek_points_hit, pending_out_player_id, updated_at
) VALUES (
    :manager_id, :gameweek, CAST(:original_squad AS JSONB), :free_transfers, :confirmed_transfer_cost,
    :gameweek_points_hit, :pending_out_player_id, :updated_at
)
ON CONFLICT (manager_id)
DO UPDATE SET
    gameweek = EXCLUDED.gameweek,
    original_squad = EXCLUDED.original_squad,
    free_transfers = EXCLUDED.free_transfers,
    confirmed_transfer_cost = EXCLUDED.confirmed_transfer_cost,
    gameweek_points_hit = EXCLUDED.gameweek_points_hit,
    pending_out_player_id = EXCLUDED.pending_out_player_id,
    updated_at = EXCLUDED.updated_at`

	sqlQuery, args, err := sqlx.Named(query, transferStateTableModel{
		ManagerID:             state.ManagerID,
		Gameweek:              state.Gameweek,
		OriginalSquad:         original,
		FreeTransfers:         state.FreeTransfers,
		ConfirmedTransferCost: state.ConfirmedTransferCost,
		GameweekPointsHit:     state.GameweekPointsHit,
		PendingOut:            state.PendingOut,
		UpdatedAt:             state.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("bind upsert transfer state query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(sqlQuery), args...); err != nil {
		return fmt.Errorf("upsert transfer state manager=%s: %w", state.ManagerID, err)
	}
	return nil
}
