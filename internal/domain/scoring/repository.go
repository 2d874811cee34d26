package scoring

import "context"

type Repository interface {
	// ReplaceFixtureScores stores the scored lines of one fixture, replacing
	// any earlier ingestion of the same fixture.
	ReplaceFixtureScores(ctx context.Context, gameweek int, fixtureID string, scores []PlayerScore) error
	ListPlayerScoresByGameweek(ctx context.Context, gameweek int) ([]PlayerScore, error)

	UpsertManagerPoints(ctx context.Context, points ManagerPoints) error
	GetManagerPoints(ctx context.Context, managerID string, gameweek int) (ManagerPoints, bool, error)
	ListManagerPoints(ctx context.Context, managerID string) ([]ManagerPoints, error)
}
