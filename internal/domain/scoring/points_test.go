package scoring

import (
	"testing"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pos   player.Position
		stats MatchStats
		want  int
	}{
		{
			name:  "did not play",
			pos:   player.PositionMidfielder,
			stats: MatchStats{CleanSheet: true},
			want:  0,
		},
		{
			name:  "forward brace and assist with max bonus",
			pos:   player.PositionForward,
			stats: MatchStats{MinutesPlayed: 90, GoalsScored: 2, Assists: 1, Bonus: 3},
			want:  16,
		},
		{
			name: "goalkeeper clean sheet with saves",
			pos:  player.PositionGoalkeeper,
			stats: MatchStats{
				MinutesPlayed:  90,
				CleanSheet:     true,
				Saves:          7,
				PenaltiesSaved: 1,
				YellowCards:    1,
			},
			want: 2 + 4 + 2 + 5 - 1,
		},
		{
			name:  "defender short of an hour gets no clean sheet",
			pos:   player.PositionDefender,
			stats: MatchStats{MinutesPlayed: 59, CleanSheet: true},
			want:  1,
		},
		{
			name:  "defender conceding five",
			pos:   player.PositionDefender,
			stats: MatchStats{MinutesPlayed: 90, GoalsConceded: 5},
			want:  0,
		},
		{
			name:  "goalkeeper conceding one is not penalised",
			pos:   player.PositionGoalkeeper,
			stats: MatchStats{MinutesPlayed: 90, GoalsConceded: 1},
			want:  2,
		},
		{
			name:  "midfielder goal and clean sheet",
			pos:   player.PositionMidfielder,
			stats: MatchStats{MinutesPlayed: 90, GoalsScored: 1, CleanSheet: true, GoalsConceded: 4},
			want:  8,
		},
		{
			name:  "forward clean sheet is worth nothing",
			pos:   player.PositionForward,
			stats: MatchStats{MinutesPlayed: 90, CleanSheet: true},
			want:  2,
		},
		{
			name:  "outfield saves are ignored",
			pos:   player.PositionDefender,
			stats: MatchStats{MinutesPlayed: 90, Saves: 6},
			want:  2,
		},
		{
			name: "bad cameo",
			pos:  player.PositionForward,
			stats: MatchStats{
				MinutesPlayed:   30,
				RedCards:        1,
				OwnGoals:        1,
				PenaltiesMissed: 1,
			},
			want: 1 - 3 - 2 - 2,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tc.stats, tc.pos).Total(); got != tc.want {
				t.Fatalf("unexpected points: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestScoreBreakdown(t *testing.T) {
	t.Parallel()

	got := Score(MatchStats{MinutesPlayed: 90, GoalsScored: 2, Assists: 1, Bonus: 3}, player.PositionForward)
	want := Breakdown{Appearance: 2, Goals: 8, Assists: 3, Bonus: 3}
	if got != want {
		t.Fatalf("unexpected breakdown: got=%+v want=%+v", got, want)
	}
}

func TestMatchStatsValidate(t *testing.T) {
	t.Parallel()

	ok := MatchStats{PlayerID: "p1", FixtureID: "f1", MinutesPlayed: 90, Bonus: 3}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []MatchStats{
		{FixtureID: "f1"},
		{PlayerID: "p1", FixtureID: "f1", GoalsScored: -1},
		{PlayerID: "p1", FixtureID: "f1", Bonus: 4},
	}
	for _, item := range bad {
		if err := item.Validate(); err == nil {
			t.Fatalf("expected error for %+v", item)
		}
	}
}
