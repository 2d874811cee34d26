package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
)

type ChipRepository struct {
	db *sqlx.DB
}

func NewChipRepository(db *sqlx.DB) *ChipRepository {
	return &ChipRepository{db: db}
}

func (r *ChipRepository) GetByManager(ctx context.Context, managerID string) (chip.Inventory, bool, error) {
	const query = `
SELECT manager_id, counts::text AS counts, active_chip, active_gameweek, committed, updated_at
FROM chip_inventories
WHERE manager_id = $1`

	var row chipInventoryTableModel
	if err := r.db.GetContext(ctx, &row, query, managerID); err != nil {
		if isNotFound(err) {
			return chip.Inventory{}, false, nil
		}
		return chip.Inventory{}, false, fmt.Errorf("get chip inventory manager=%s: %w", managerID, err)
	}

	inv, err := inventoryFromRow(row)
	if err != nil {
		return chip.Inventory{}, false, err
	}
	return inv, true, nil
}

func (r *ChipRepository) Upsert(ctx context.Context, inv chip.Inventory) error {
	row, err := inventoryToRow(inv)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO chip_inventories (manager_id, counts, active_chip, active_gameweek, committed, updated_at)
VALUES (:manager_id, CAST(:counts AS JSONB), :active_chip, :active_gameweek, :committed, :updated_at)
ON CONFLICT (manager_id)
DO UPDATE SET
    counts = EXCLUDED.counts,
    active_chip = EXCLUDED.active_chip,
    active_gameweek = EXCLUDED.active_gameweek,
    committed = EXCLUDED.committed,
    updated_at = EXCLUDED.updated_at`

	sqlQuery, args, err := sqlx.Named(query, row)
	if err != nil {
		return fmt.Errorf("bind upsert chip inventory query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(sqlQuery), args...); err != nil {
		return fmt.Errorf("upsert chip inventory manager=%s: %w", inv.ManagerID, err)
	}
	return nil
}

func inventoryToRow(inv chip.Inventory) (chipInventoryTableModel, error) {
	counts := make(map[string]int, len(inv.Counts))
	for t, n := range inv.Counts {
		counts[string(t)] = n
	}
	encoded, err := encodeDocument(counts)
	if err != nil {
		return chipInventoryTableModel{}, fmt.Errorf("encode chip counts manager=%s: %w", inv.ManagerID, err)
	}
	return chipInventoryTableModel{
		ManagerID:      inv.ManagerID,
		Counts:         encoded,
		Active:         string(inv.Active),
		ActiveGameweek: inv.ActiveGameweek,
		Committed:      inv.Committed,
		UpdatedAt:      inv.UpdatedAt.UTC(),
	}, nil
}

func inventoryFromRow(row chipInventoryTableModel) (chip.Inventory, error) {
	var raw map[string]int
	if err := decodeDocument(row.Counts, &raw); err != nil {
		return chip.Inventory{}, fmt.Errorf("decode chip counts manager=%s: %w", row.ManagerID, err)
	}
	counts := make(map[chip.Type]int, len(raw))
	for t, n := range raw {
		counts[chip.Type(t)] = n
	}
	return chip.Inventory{
		ManagerID:      row.ManagerID,
		Counts:         counts,
		Active:         chip.Type(row.Active),
		ActiveGameweek: row.ActiveGameweek,
		Committed:      row.Committed,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}
