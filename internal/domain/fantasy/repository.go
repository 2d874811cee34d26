package fantasy

import "context"

// Repository describes squad persistence needs from use cases.
type Repository interface {
	GetByManager(ctx context.Context, managerID string) (Squad, bool, error)
	ListManagerIDs(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, squad Squad) error
}
