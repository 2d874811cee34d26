package fantasy

import (
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/shopspring/decimal"
)

// Rules stores squad validation parameters.
type Rules struct {
	SquadSize    int
	StartingSize int
	MaxPerClub   int
	TotalBudget  decimal.Decimal
	Composition  map[player.Position]int
	// StartingMin and StartingMax bound the starting XI per position. A zero
	// max means no upper bound.
	StartingMin map[player.Position]int
	StartingMax map[player.Position]int
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:    15,
		StartingSize: 11,
		MaxPerClub:   3,
		TotalBudget:  decimal.NewFromInt(100),
		Composition: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
		StartingMin: map[player.Position]int{
			player.PositionGoalkeeper: 1,
			player.PositionDefender:   3,
			player.PositionMidfielder: 2,
			player.PositionForward:    1,
		},
		StartingMax: map[player.Position]int{
			player.PositionGoalkeeper: 1,
		},
	}
}

func (r Rules) BenchSize() int {
	return r.SquadSize - r.StartingSize
}

// FormationValid reports whether starting XI position counts form a legal
// formation.
func (r Rules) FormationValid(counts map[player.Position]int) bool {
	total := 0
	for _, pos := range player.AllPositions {
		n := counts[pos]
		total += n
		if n < r.StartingMin[pos] {
			return false
		}
		if limit := r.StartingMax[pos]; limit > 0 && n > limit {
			return false
		}
	}
	return total == r.StartingSize
}
