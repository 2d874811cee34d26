package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/shopspring/decimal"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches wrapped no rows", func(t *testing.T) {
		if !isNotFound(fmt.Errorf("get: %w", sql.ErrNoRows)) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(errors.New("pq: relation players does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestSquadRows(t *testing.T) {
	squad := fantasy.Squad{
		ManagerID: "m1",
		Players: []fantasy.SquadPlayer{
			{PlayerID: "psj-gk-1", Club: "PSJ", Position: player.PositionGoalkeeper, CurrentPrice: decimal.RequireFromString("5.0"), PurchasePrice: decimal.RequireFromString("4.5")},
			{PlayerID: "psb-gk-1", Club: "PSB", Position: player.PositionGoalkeeper, CurrentPrice: decimal.RequireFromString("5.0"), PurchasePrice: decimal.RequireFromString("5.0")},
		},
		CaptainID:     "psj-gk-1",
		ViceCaptainID: "psb-gk-1",
		BenchOrder:    []string{"psb-gk-1"},
		Bank:          decimal.RequireFromString("1.5"),
		TotalBudget:   decimal.RequireFromString("100"),
	}

	header, picks, err := squadToRows(squad)
	if err != nil {
		t.Fatalf("squad to rows: %v", err)
	}
	if header.BenchOrder != `["psb-gk-1"]` {
		t.Fatalf("unexpected bench order document: %s", header.BenchOrder)
	}
	if len(picks) != 2 || picks[1].Slot != 1 {
		t.Fatalf("unexpected picks: %+v", picks)
	}

	got, err := squadFromRows(header, picks)
	if err != nil {
		t.Fatalf("squad from rows: %v", err)
	}
	if got.Players[0].PlayerID != "psj-gk-1" || !got.Players[0].PurchasePrice.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("unexpected first player: %+v", got.Players[0])
	}
	if len(got.BenchOrder) != 1 || got.BenchOrder[0] != "psb-gk-1" {
		t.Fatalf("unexpected bench order: %v", got.BenchOrder)
	}
}

func TestSquadRows_EmptyBench(t *testing.T) {
	header, _, err := squadToRows(fantasy.Squad{ManagerID: "m1"})
	if err != nil {
		t.Fatalf("squad to rows: %v", err)
	}
	if header.BenchOrder != "[]" {
		t.Fatalf("nil bench must encode as an empty array, got %s", header.BenchOrder)
	}
}

func TestInventoryRows(t *testing.T) {
	inv := chip.NewInventory("m1", 1)
	if err := inv.Activate(chip.BenchBoost, 3, chip.DeductOnActivate); err != nil {
		t.Fatalf("activate: %v", err)
	}

	row, err := inventoryToRow(inv)
	if err != nil {
		t.Fatalf("inventory to row: %v", err)
	}
	got, err := inventoryFromRow(row)
	if err != nil {
		t.Fatalf("inventory from row: %v", err)
	}
	if active, ok := got.ActiveFor(3); !ok || active != chip.BenchBoost {
		t.Fatalf("unexpected active chip: %s", active)
	}
	if got.Remaining(chip.BenchBoost) != 0 || got.Remaining(chip.Wildcard) != 1 {
		t.Fatalf("unexpected counts: %v", got.Counts)
	}
}

func TestFixtureScoreRows(t *testing.T) {
	score := scoring.PlayerScore{
		Stats:     scoring.MatchStats{PlayerID: "prb-fwd-1", FixtureID: "fx-1", MinutesPlayed: 90, GoalsScored: 2},
		Position:  player.PositionForward,
		Breakdown: scoring.Breakdown{Appearance: 2, Goals: 8},
		Points:    10,
		ScoredAt:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}

	row, err := fixtureScoreToRow(1, "fx-1", score)
	if err != nil {
		t.Fatalf("fixture score to row: %v", err)
	}
	got, err := fixtureScoreFromRow(row)
	if err != nil {
		t.Fatalf("fixture score from row: %v", err)
	}
	if got.Stats.GoalsScored != 2 || got.Stats.Gameweek != 1 || got.Breakdown.Goals != 8 || got.Points != 10 {
		t.Fatalf("unexpected score: %+v", got)
	}
}

func TestDecodeDocument_Invalid(t *testing.T) {
	var out []string
	if err := decodeDocument("{not json", &out); err == nil {
		t.Fatalf("expected decode error")
	}
}
