package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	qb "github.com/riskibarqy/fantasy-rules-engine/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

// ReplaceFixtureScores deletes the fixture's previous lines and inserts the
// new ones in one transaction.
func (r *ScoringRepository) ReplaceFixtureScores(ctx context.Context, gameweek int, fixtureID string, scores []scoring.PlayerScore) error {
	rows := make([]playerFixtureScoreTableModel, 0, len(scores))
	for _, score := range scores {
		row, err := fixtureScoreToRow(gameweek, fixtureID, score)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for fixture scores: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteSQL, deleteArgs, err := qb.DeleteFrom("player_fixture_scores").
		Where(qb.Eq("fixture_id", fixtureID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete fixture scores query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("delete fixture scores fixture=%s: %w", fixtureID, err)
	}

	if len(rows) > 0 {
		insertSQL, insertArgs, err := qb.InsertModels("player_fixture_scores", rows)
		if err != nil {
			return fmt.Errorf("build insert fixture scores query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return fmt.Errorf("insert fixture scores fixture=%s: %w", fixtureID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fixture scores tx: %w", err)
	}
	return nil
}

func (r *ScoringRepository) ListPlayerScoresByGameweek(ctx context.Context, gameweek int) ([]scoring.PlayerScore, error) {
	const query = `
SELECT gameweek, fixture_id, player_public_id, position, stats::text AS stats,
       breakdown::text AS breakdown, points, scored_at
FROM player_fixture_scores
WHERE gameweek = $1
ORDER BY fixture_id, player_public_id`

	var rows []playerFixtureScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameweek); err != nil {
		return nil, fmt.Errorf("list player scores gameweek=%d: %w", gameweek, err)
	}

	out := make([]scoring.PlayerScore, 0, len(rows))
	for _, row := range rows {
		score, err := fixtureScoreFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, score)
	}
	return out, nil
}

func (r *ScoringRepository) UpsertManagerPoints(ctx context.Context, points scoring.ManagerPoints) error {
	players, err := encodeDocument(points.Players)
	if err != nil {
		return fmt.Errorf("encode manager points manager=%s: %w", points.ManagerID, err)
	}

	const query = `
INSERT INTO manager_gameweek_points (
    manager_id, gameweek, chip, players, gross_points, transfer_cost, total_points, calculated_at
) VALUES (
    :manager_id, :gameweek, :chip, CAST(:players AS JSONB), :gross_points, :transfer_cost, :total_points, :calculated_at
)
ON CONFLICT (manager_id, gameweek)
DO UPDATE SET
    chip = EXCLUDED.chip,
    players = EXCLUDED.players,
    gross_points = EXCLUDED.gross_points,
    transfer_cost = EXCLUDED.transfer_cost,
    total_points = EXCLUDED.total_points,
    calculated_at = EXCLUDED.calculated_at`

	sqlQuery, args, err := sqlx.Named(query, managerPointsTableModel{
		ManagerID:    points.ManagerID,
		Gameweek:     points.Gameweek,
		Chip:         string(points.Chip),
		Players:      players,
		GrossPoints:  points.GrossPoints,
		TransferCost: points.TransferCost,
		TotalPoints:  points.TotalPoints,
		CalculatedAt: points.CalculatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("bind upsert manager points query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(sqlQuery), args...); err != nil {
		return fmt.Errorf("upsert manager points manager=%s gameweek=%d: %w", points.ManagerID, points.Gameweek, err)
	}
	return nil
}

var managerPointsSelectColumns = []string{
	"manager_id",
	"gameweek",
	"chip",
	"players::text AS players",
	"gross_points",
	"transfer_cost",
	"total_points",
	"calculated_at",
}

func (r *ScoringRepository) GetManagerPoints(ctx context.Context, managerID string, gameweek int) (scoring.ManagerPoints, bool, error) {
	query, args, err := qb.Select(managerPointsSelectColumns...).From("manager_gameweek_points").
		Where(
			qb.Eq("manager_id", managerID),
			qb.Eq("gameweek", gameweek),
		).
		ToSQL()
	if err != nil {
		return scoring.ManagerPoints{}, false, fmt.Errorf("build select manager points query: %w", err)
	}

	var row managerPointsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.ManagerPoints{}, false, nil
		}
		return scoring.ManagerPoints{}, false, fmt.Errorf("get manager points manager=%s gameweek=%d: %w", managerID, gameweek, err)
	}
	points, err := managerPointsFromRow(row)
	if err != nil {
		return scoring.ManagerPoints{}, false, err
	}
	return points, true, nil
}

func (r *ScoringRepository) ListManagerPoints(ctx context.Context, managerID string) ([]scoring.ManagerPoints, error) {
	query, args, err := qb.Select(managerPointsSelectColumns...).From("manager_gameweek_points").
		Where(qb.Eq("manager_id", managerID)).
		OrderBy("gameweek").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list manager points query: %w", err)
	}

	var rows []managerPointsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list manager points manager=%s: %w", managerID, err)
	}

	out := make([]scoring.ManagerPoints, 0, len(rows))
	for _, row := range rows {
		points, err := managerPointsFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, points)
	}
	return out, nil
}

func fixtureScoreToRow(gameweek int, fixtureID string, score scoring.PlayerScore) (playerFixtureScoreTableModel, error) {
	stats, err := encodeDocument(score.Stats)
	if err != nil {
		return playerFixtureScoreTableModel{}, fmt.Errorf("encode stats player=%s: %w", score.Stats.PlayerID, err)
	}
	breakdown, err := encodeDocument(score.Breakdown)
	if err != nil {
		return playerFixtureScoreTableModel{}, fmt.Errorf("encode breakdown player=%s: %w", score.Stats.PlayerID, err)
	}
	return playerFixtureScoreTableModel{
		Gameweek:  gameweek,
		FixtureID: fixtureID,
		PlayerID:  score.Stats.PlayerID,
		Position:  string(score.Position),
		Stats:     stats,
		Breakdown: breakdown,
		Points:    score.Points,
		ScoredAt:  score.ScoredAt.UTC(),
	}, nil
}

func fixtureScoreFromRow(row playerFixtureScoreTableModel) (scoring.PlayerScore, error) {
	var stats scoring.MatchStats
	if err := decodeDocument(row.Stats, &stats); err != nil {
		return scoring.PlayerScore{}, fmt.Errorf("decode stats player=%s fixture=%s: %w", row.PlayerID, row.FixtureID, err)
	}
	var breakdown scoring.Breakdown
	if err := decodeDocument(row.Breakdown, &breakdown); err != nil {
		return scoring.PlayerScore{}, fmt.Errorf("decode breakdown player=%s fixture=%s: %w", row.PlayerID, row.FixtureID, err)
	}
	stats.PlayerID = row.PlayerID
	stats.FixtureID = row.FixtureID
	stats.Gameweek = row.Gameweek
	return scoring.PlayerScore{
		Stats:     stats,
		Position:  player.Position(row.Position),
		Breakdown: breakdown,
		Points:    row.Points,
		ScoredAt:  row.ScoredAt,
	}, nil
}

func managerPointsFromRow(row managerPointsTableModel) (scoring.ManagerPoints, error) {
	var players []scoring.PlayerPoints
	if err := decodeDocument(row.Players, &players); err != nil {
		return scoring.ManagerPoints{}, fmt.Errorf("decode manager points manager=%s gameweek=%d: %w", row.ManagerID, row.Gameweek, err)
	}
	return scoring.ManagerPoints{
		ManagerID:    row.ManagerID,
		Gameweek:     row.Gameweek,
		Chip:         chip.Type(row.Chip),
		Players:      players,
		GrossPoints:  row.GrossPoints,
		TransferCost: row.TransferCost,
		TotalPoints:  row.TotalPoints,
		CalculatedAt: row.CalculatedAt,
	}, nil
}
