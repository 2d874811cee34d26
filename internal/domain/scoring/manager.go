package scoring

import (
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
)

const (
	captainMultiplier       = 2
	tripleCaptainMultiplier = 3
)

// Totals aggregates a player's fixtures in one gameweek.
type Totals struct {
	Minutes   int
	Points    int
	Breakdown Breakdown
}

func TotalsByPlayer(scores []PlayerScore) map[string]Totals {
	out := make(map[string]Totals, len(scores))
	for _, score := range scores {
		item := out[score.Stats.PlayerID]
		item.Minutes += score.Stats.MinutesPlayed
		item.Points += score.Points
		item.Breakdown = item.Breakdown.Add(score.Breakdown)
		out[score.Stats.PlayerID] = item
	}
	return out
}

// CaptainMultiplier returns the factor applied to the armband holder.
func CaptainMultiplier(active chip.Type) int {
	if active == chip.TripleCaptain {
		return tripleCaptainMultiplier
	}
	return captainMultiplier
}

// ScoreManager totals a squad's gameweek. Starters count, bench players count
// only under bench boost. The captain's points are multiplied, or the vice
// captain's when the captain did not play. pointsHit is subtracted once.
func ScoreManager(squad fantasy.Squad, gameweek int, active chip.Type, pointsHit int, totals map[string]Totals) ManagerPoints {
	armband := squad.CaptainID
	if totals[squad.CaptainID].Minutes == 0 {
		armband = squad.ViceCaptainID
	}
	multiplier := CaptainMultiplier(active)

	ordered := make([]fantasy.SquadPlayer, 0, len(squad.Players))
	ordered = append(ordered, squad.Starters()...)
	for _, id := range squad.BenchOrder {
		if idx := squad.IndexOf(id); idx >= 0 {
			ordered = append(ordered, squad.Players[idx])
		}
	}

	result := ManagerPoints{
		ManagerID:    squad.ManagerID,
		Gameweek:     gameweek,
		Chip:         active,
		Players:      make([]PlayerPoints, 0, len(ordered)),
		TransferCost: pointsHit,
	}
	for _, sp := range ordered {
		item := totals[sp.PlayerID]
		row := PlayerPoints{
			PlayerID:      sp.PlayerID,
			Position:      sp.Position,
			IsStarter:     !squad.IsBenched(sp.PlayerID),
			IsCaptain:     sp.PlayerID == squad.CaptainID,
			IsViceCaptain: sp.PlayerID == squad.ViceCaptainID,
			Minutes:       item.Minutes,
			BasePoints:    item.Points,
			Breakdown:     item.Breakdown,
		}

		if row.IsStarter || active == chip.BenchBoost {
			row.Multiplier = 1
			if sp.PlayerID == armband {
				row.Multiplier = multiplier
			}
		}
		row.CountedPoints = row.BasePoints * row.Multiplier
		result.GrossPoints += row.CountedPoints
		result.Players = append(result.Players, row)
	}
	result.TotalPoints = result.GrossPoints - pointsHit
	return result
}
