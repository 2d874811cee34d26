package gameweek

import "context"

// Repository stores gameweeks. The current gameweek is the one with the
// highest number.
type Repository interface {
	GetCurrent(ctx context.Context) (Gameweek, bool, error)
	GetByNumber(ctx context.Context, number int) (Gameweek, bool, error)
	Upsert(ctx context.Context, gw Gameweek) error
}
