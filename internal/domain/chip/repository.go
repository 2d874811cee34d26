package chip

import "context"

type Repository interface {
	GetByManager(ctx context.Context, managerID string) (Inventory, bool, error)
	Upsert(ctx context.Context, inv Inventory) error
}
