package transfer

import "context"

type Repository interface {
	GetByManager(ctx context.Context, managerID string) (State, bool, error)
	Upsert(ctx context.Context, state State) error
}
