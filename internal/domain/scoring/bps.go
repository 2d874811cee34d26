package scoring

import (
	"sort"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
)

const (
	bpsMinutesShort     = 3
	bpsMinutesFull      = 6
	bpsAssist           = 9
	bpsCleanSheet       = 12
	bpsSave             = 2
	bpsPenaltySave      = 15
	bpsPenaltyMiss      = -6
	bpsYellowCard       = -3
	bpsRedCard          = -9
	bpsTouchesPerPoint  = 10
	bpsPointsPerDuelWon = 1
	bonusTiers          = 3
)

func bpsGoal(pos player.Position) int {
	switch pos {
	case player.PositionForward:
		return 24
	case player.PositionMidfielder:
		return 18
	default:
		return 12
	}
}

// Engagement is the underlying-performance part of BPS.
func Engagement(stats MatchStats) int {
	return stats.Touches/bpsTouchesPerPoint + stats.DuelsWon*bpsPointsPerDuelWon
}

// BPS computes the bonus points system score for a fixture line.
func BPS(stats MatchStats, pos player.Position) int {
	if !stats.Played() {
		return 0
	}

	total := bpsMinutesShort
	if stats.MinutesPlayed >= fullAppearanceMinutes {
		total = bpsMinutesFull
	}
	total += stats.GoalsScored * bpsGoal(pos)
	total += stats.Assists * bpsAssist
	if stats.CleanSheet && defensive(pos) && stats.MinutesPlayed >= fullAppearanceMinutes {
		total += bpsCleanSheet
	}
	if pos == player.PositionGoalkeeper {
		total += stats.Saves * bpsSave
	}
	total += stats.PenaltiesSaved*bpsPenaltySave + stats.PenaltiesMissed*bpsPenaltyMiss
	total += stats.YellowCards*bpsYellowCard + stats.RedCards*bpsRedCard
	total += Engagement(stats)
	return total
}

// AssignBonus ranks the players who took part in one fixture by BPS. The
// three highest distinct BPS values receive 3, 2 and 1 bonus and tied
// players share a tier. Lines with no minutes get no bonus.
func AssignBonus(lines []MatchStats) {
	values := make([]int, 0, len(lines))
	seen := make(map[int]struct{}, len(lines))
	for i := range lines {
		lines[i].Bonus = 0
		if !lines[i].Played() {
			continue
		}
		if _, ok := seen[lines[i].BPS]; ok {
			continue
		}
		seen[lines[i].BPS] = struct{}{}
		values = append(values, lines[i].BPS)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	if len(values) > bonusTiers {
		values = values[:bonusTiers]
	}

	bonusByValue := make(map[int]int, len(values))
	for rank, value := range values {
		bonusByValue[value] = bonusTiers - rank
	}
	for i := range lines {
		if !lines[i].Played() {
			continue
		}
		lines[i].Bonus = bonusByValue[lines[i].BPS]
	}
}

// ScoreFixture computes BPS, bonus and points for every line of one fixture.
// Feed supplied BPS and bonus values are replaced. Lines whose player has no
// known position are skipped.
func ScoreFixture(lines []MatchStats, positions map[string]player.Position) []PlayerScore {
	rated := make([]MatchStats, 0, len(lines))
	for _, line := range lines {
		pos, ok := positions[line.PlayerID]
		if !ok {
			continue
		}
		line.BPS = BPS(line, pos)
		rated = append(rated, line)
	}
	AssignBonus(rated)

	out := make([]PlayerScore, 0, len(rated))
	for _, line := range rated {
		pos := positions[line.PlayerID]
		breakdown := Score(line, pos)
		out = append(out, PlayerScore{
			Stats:     line,
			Position:  pos,
			Breakdown: breakdown,
			Points:    breakdown.Total(),
		})
	}
	return out
}
