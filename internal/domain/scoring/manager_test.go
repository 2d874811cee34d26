package scoring

import (
	"testing"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
)

func managerSquad() fantasy.Squad {
	pick := func(id string, pos player.Position) fantasy.SquadPlayer {
		return fantasy.SquadPlayer{PlayerID: id, Club: id, Position: pos}
	}
	return fantasy.Squad{
		ManagerID: "mgr-1",
		Players: []fantasy.SquadPlayer{
			pick("gk1", player.PositionGoalkeeper),
			pick("gk2", player.PositionGoalkeeper),
			pick("def1", player.PositionDefender),
			pick("def2", player.PositionDefender),
			pick("def3", player.PositionDefender),
			pick("def4", player.PositionDefender),
			pick("def5", player.PositionDefender),
			pick("mid1", player.PositionMidfielder),
			pick("mid2", player.PositionMidfielder),
			pick("mid3", player.PositionMidfielder),
			pick("mid4", player.PositionMidfielder),
			pick("mid5", player.PositionMidfielder),
			pick("fwd1", player.PositionForward),
			pick("fwd2", player.PositionForward),
			pick("fwd3", player.PositionForward),
		},
		CaptainID:     "fwd1",
		ViceCaptainID: "mid1",
		BenchOrder:    []string{"gk2", "def5", "mid5", "fwd3"},
	}
}

func TestScoreManager(t *testing.T) {
	t.Parallel()

	totals := map[string]Totals{
		"fwd1": {Minutes: 90, Points: 16},
		"mid1": {Minutes: 90, Points: 5},
		"gk2":  {Minutes: 90, Points: 3},
	}

	tests := []struct {
		name      string
		active    chip.Type
		pointsHit int
		mutate    func(map[string]Totals)
		want      int
	}{
		{name: "captain doubled", want: 32 + 5},
		{name: "triple captain", active: chip.TripleCaptain, want: 48 + 5},
		{
			name: "vice captain takes the armband",
			mutate: func(m map[string]Totals) {
				m["fwd1"] = Totals{}
			},
			want: 10,
		},
		{
			name:   "vice captain tripled",
			active: chip.TripleCaptain,
			mutate: func(m map[string]Totals) {
				m["fwd1"] = Totals{}
			},
			want: 15,
		},
		{name: "bench boost counts the bench", active: chip.BenchBoost, want: 32 + 5 + 3},
		{name: "transfer hit", pointsHit: 8, want: 32 + 5 - 8},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			local := make(map[string]Totals, len(totals))
			for k, v := range totals {
				local[k] = v
			}
			if tc.mutate != nil {
				tc.mutate(local)
			}

			got := ScoreManager(managerSquad(), 3, tc.active, tc.pointsHit, local)
			if got.TotalPoints != tc.want {
				t.Fatalf("unexpected total: got=%d want=%d", got.TotalPoints, tc.want)
			}
			if got.TransferCost != tc.pointsHit {
				t.Fatalf("unexpected transfer cost: got=%d want=%d", got.TransferCost, tc.pointsHit)
			}
		})
	}
}

func TestScoreManagerRows(t *testing.T) {
	t.Parallel()

	got := ScoreManager(managerSquad(), 1, chip.None, 0, map[string]Totals{
		"fwd1": {Minutes: 90, Points: 16},
		"gk2":  {Minutes: 90, Points: 3},
	})

	if len(got.Players) != 15 {
		t.Fatalf("unexpected row count: got=%d want=15", len(got.Players))
	}
	if got.Players[11].PlayerID != "gk2" || got.Players[11].IsStarter {
		t.Fatalf("bench should follow starters in bench order, got %+v", got.Players[11])
	}
	if got.Players[11].Multiplier != 0 || got.Players[11].CountedPoints != 0 {
		t.Fatalf("bench row should not count: %+v", got.Players[11])
	}
	for _, row := range got.Players {
		if row.PlayerID == "fwd1" && (row.Multiplier != 2 || row.CountedPoints != 32 || !row.IsCaptain) {
			t.Fatalf("unexpected captain row: %+v", row)
		}
	}
}

func TestTotalsByPlayer(t *testing.T) {
	t.Parallel()

	got := TotalsByPlayer([]PlayerScore{
		{Stats: MatchStats{PlayerID: "p1", FixtureID: "f1", MinutesPlayed: 90}, Points: 6, Breakdown: Breakdown{Appearance: 2, Goals: 4}},
		{Stats: MatchStats{PlayerID: "p1", FixtureID: "f2", MinutesPlayed: 20}, Points: 1, Breakdown: Breakdown{Appearance: 1}},
		{Stats: MatchStats{PlayerID: "p2", FixtureID: "f1"}},
	})

	if got["p1"].Minutes != 110 || got["p1"].Points != 7 || got["p1"].Breakdown.Appearance != 3 {
		t.Fatalf("unexpected double gameweek totals: %+v", got["p1"])
	}
	if _, ok := got["p2"]; !ok {
		t.Fatalf("players without minutes should still be present")
	}
}
