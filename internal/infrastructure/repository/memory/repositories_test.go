package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
)

func TestSeedPlayersAreValid(t *testing.T) {
	t.Parallel()

	players := SeedPlayers()
	seen := make(map[string]struct{}, len(players))
	perPosition := make(map[player.Position]int)
	for _, p := range players {
		if err := p.Validate(); err != nil {
			t.Fatalf("invalid seed player %s: %v", p.ID, err)
		}
		if _, dup := seen[p.ID]; dup {
			t.Fatalf("duplicate seed player %s", p.ID)
		}
		seen[p.ID] = struct{}{}
		perPosition[p.Position]++
	}

	for pos, need := range fantasy.DefaultRules().Composition {
		if perPosition[pos] < need {
			t.Fatalf("seed pool cannot fill %s: have %d need %d", pos, perPosition[pos], need)
		}
	}
}

func TestGameweekRepositoryCurrentIsHighestNumber(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	repo := NewGameweekRepository(SeedGameweek(now))

	if err := repo.Upsert(ctx, gameweek.Gameweek{Number: 2, Status: gameweek.StatusActive, Deadline: now.Add(14 * 24 * time.Hour)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	current, ok, err := repo.GetCurrent(ctx)
	if err != nil || !ok {
		t.Fatalf("get current: ok=%v err=%v", ok, err)
	}
	if current.Number != 2 {
		t.Fatalf("unexpected current gameweek: got=%d want=2", current.Number)
	}
}

func TestSquadRepositoryReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSquadRepository()
	squad := fantasy.Squad{ManagerID: "mgr-1", Players: []fantasy.SquadPlayer{{PlayerID: "p1"}}, BenchOrder: []string{"p1"}}
	if err := repo.Upsert(ctx, squad); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _, _ := repo.GetByManager(ctx, "mgr-1")
	got.Players[0].PlayerID = "changed"
	got.BenchOrder[0] = "changed"

	again, _, _ := repo.GetByManager(ctx, "mgr-1")
	if again.Players[0].PlayerID != "p1" || again.BenchOrder[0] != "p1" {
		t.Fatalf("repository state leaked through a returned squad")
	}
}
