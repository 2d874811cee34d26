package resultsfeed

import (
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/shopspring/decimal"
)

type fixturesEnvelope struct {
	Data []fixturePayload `json:"data"`
}

type fixturePayload struct {
	ID        string `json:"id"`
	Gameweek  int    `json:"gameweek"`
	KickoffAt string `json:"kickoff_at"`
	Status    string `json:"status"`
	Finished  bool   `json:"finished"`
}

type statsEnvelope struct {
	Data []statLinePayload `json:"data"`
}

// statLinePayload is one player's final line. bps and bonus from the
// provider are read but recomputed during ingestion.
type statLinePayload struct {
	PlayerID        string `json:"player_id"`
	Gameweek        int    `json:"gameweek"`
	MinutesPlayed   int    `json:"minutes_played"`
	GoalsScored     int    `json:"goals_scored"`
	Assists         int    `json:"assists"`
	CleanSheet      bool   `json:"clean_sheet"`
	GoalsConceded   int    `json:"goals_conceded"`
	OwnGoals        int    `json:"own_goals"`
	PenaltiesSaved  int    `json:"penalties_saved"`
	PenaltiesMissed int    `json:"penalties_missed"`
	YellowCards     int    `json:"yellow_cards"`
	RedCards        int    `json:"red_cards"`
	Saves           int    `json:"saves"`
	Touches         int    `json:"touches"`
	DuelsWon        int    `json:"duels_won"`
	BPS             int    `json:"bps"`
	Bonus           int    `json:"bonus"`
}

func (p statLinePayload) toDomain(fixtureID string) scoring.MatchStats {
	return scoring.MatchStats{
		PlayerID:        p.PlayerID,
		FixtureID:       fixtureID,
		Gameweek:        p.Gameweek,
		MinutesPlayed:   p.MinutesPlayed,
		GoalsScored:     p.GoalsScored,
		Assists:         p.Assists,
		CleanSheet:      p.CleanSheet,
		GoalsConceded:   p.GoalsConceded,
		OwnGoals:        p.OwnGoals,
		PenaltiesSaved:  p.PenaltiesSaved,
		PenaltiesMissed: p.PenaltiesMissed,
		YellowCards:     p.YellowCards,
		RedCards:        p.RedCards,
		Saves:           p.Saves,
		Touches:         p.Touches,
		DuelsWon:        p.DuelsWon,
		BPS:             p.BPS,
		Bonus:           p.Bonus,
	}
}

type playerUpdatesEnvelope struct {
	Data []playerUpdatePayload `json:"data"`
}

type playerUpdatePayload struct {
	PlayerID string           `json:"player_id"`
	Price    *decimal.Decimal `json:"price"`
	Status   string           `json:"status"`
}
