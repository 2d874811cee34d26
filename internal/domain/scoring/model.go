package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
)

var ErrInvalidStats = errors.New("invalid match stats")

// MatchStats is one player's final line for one fixture as delivered by the
// results feed. Touches and DuelsWon feed the engagement part of BPS.
type MatchStats struct {
	PlayerID        string
	FixtureID       string
	Gameweek        int
	MinutesPlayed   int
	GoalsScored     int
	Assists         int
	CleanSheet      bool
	GoalsConceded   int
	OwnGoals        int
	PenaltiesSaved  int
	PenaltiesMissed int
	YellowCards     int
	RedCards        int
	Saves           int
	Touches         int
	DuelsWon        int
	BPS             int
	Bonus           int
}

func (s MatchStats) Played() bool {
	return s.MinutesPlayed > 0
}

func (s MatchStats) Validate() error {
	if s.PlayerID == "" || s.FixtureID == "" {
		return fmt.Errorf("%w: player and fixture are required", ErrInvalidStats)
	}
	counters := map[string]int{
		"minutesPlayed":   s.MinutesPlayed,
		"goalsScored":     s.GoalsScored,
		"assists":         s.Assists,
		"goalsConceded":   s.GoalsConceded,
		"ownGoals":        s.OwnGoals,
		"penaltiesSaved":  s.PenaltiesSaved,
		"penaltiesMissed": s.PenaltiesMissed,
		"yellowCards":     s.YellowCards,
		"redCards":        s.RedCards,
		"saves":           s.Saves,
		"touches":         s.Touches,
		"duelsWon":        s.DuelsWon,
	}
	for name, value := range counters {
		if value < 0 {
			return fmt.Errorf("%w: %s must be >= 0 for player %s", ErrInvalidStats, name, s.PlayerID)
		}
	}
	if s.Bonus < 0 || s.Bonus > 3 {
		return fmt.Errorf("%w: bonus must be between 0 and 3 for player %s", ErrInvalidStats, s.PlayerID)
	}
	return nil
}

// Breakdown splits a player's fixture points by rule.
type Breakdown struct {
	Appearance    int
	Goals         int
	Assists       int
	CleanSheet    int
	GoalsConceded int
	Cards         int
	Penalties     int
	Saves         int
	OwnGoals      int
	Bonus         int
}

func (b Breakdown) Total() int {
	return b.Appearance + b.Goals + b.Assists + b.CleanSheet + b.GoalsConceded +
		b.Cards + b.Penalties + b.Saves + b.OwnGoals + b.Bonus
}

func (b Breakdown) Add(other Breakdown) Breakdown {
	return Breakdown{
		Appearance:    b.Appearance + other.Appearance,
		Goals:         b.Goals + other.Goals,
		Assists:       b.Assists + other.Assists,
		CleanSheet:    b.CleanSheet + other.CleanSheet,
		GoalsConceded: b.GoalsConceded + other.GoalsConceded,
		Cards:         b.Cards + other.Cards,
		Penalties:     b.Penalties + other.Penalties,
		Saves:         b.Saves + other.Saves,
		OwnGoals:      b.OwnGoals + other.OwnGoals,
		Bonus:         b.Bonus + other.Bonus,
	}
}

// PlayerScore is a scored fixture line.
type PlayerScore struct {
	Stats     MatchStats
	Position  player.Position
	Breakdown Breakdown
	Points    int
	ScoredAt  time.Time
}

// PlayerPoints is one squad slot in a manager's gameweek total.
type PlayerPoints struct {
	PlayerID      string
	Position      player.Position
	IsStarter     bool
	IsCaptain     bool
	IsViceCaptain bool
	Minutes       int
	Multiplier    int
	BasePoints    int
	CountedPoints int
	Breakdown     Breakdown
}

type ManagerPoints struct {
	ManagerID    string
	Gameweek     int
	Chip         chip.Type
	Players      []PlayerPoints
	GrossPoints  int
	TransferCost int
	TotalPoints  int
	CalculatedAt time.Time
}
