package scoring

import "github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"

const (
	fullAppearanceMinutes = 60

	assistPoints          = 3
	yellowCardPoints      = -1
	redCardPoints         = -3
	penaltySavePoints     = 5
	penaltyMissPoints     = -2
	ownGoalPoints         = -2
	savesPerPoint         = 3
	concededPerPointLost  = 2
	minConcededForPenalty = 2
)

func goalPoints(pos player.Position) int {
	switch pos {
	case player.PositionForward:
		return 4
	case player.PositionMidfielder:
		return 5
	default:
		return 6
	}
}

func cleanSheetPoints(pos player.Position) int {
	switch pos {
	case player.PositionGoalkeeper, player.PositionDefender:
		return 4
	case player.PositionMidfielder:
		return 1
	default:
		return 0
	}
}

func defensive(pos player.Position) bool {
	return pos == player.PositionGoalkeeper || pos == player.PositionDefender
}

// Score computes fantasy points for one fixture line. Bonus is taken from
// stats as is.
func Score(stats MatchStats, pos player.Position) Breakdown {
	var b Breakdown

	switch {
	case stats.MinutesPlayed >= fullAppearanceMinutes:
		b.Appearance = 2
	case stats.MinutesPlayed > 0:
		b.Appearance = 1
	}

	b.Goals = stats.GoalsScored * goalPoints(pos)
	b.Assists = stats.Assists * assistPoints

	if stats.CleanSheet && stats.MinutesPlayed >= fullAppearanceMinutes {
		b.CleanSheet = cleanSheetPoints(pos)
	}
	if defensive(pos) && stats.GoalsConceded >= minConcededForPenalty {
		b.GoalsConceded = -(stats.GoalsConceded / concededPerPointLost)
	}

	b.Cards = stats.YellowCards*yellowCardPoints + stats.RedCards*redCardPoints
	b.Penalties = stats.PenaltiesSaved*penaltySavePoints + stats.PenaltiesMissed*penaltyMissPoints
	if pos == player.PositionGoalkeeper {
		b.Saves = stats.Saves / savesPerPoint
	}
	b.OwnGoals = stats.OwnGoals * ownGoalPoints
	b.Bonus = stats.Bonus
	return b
}
