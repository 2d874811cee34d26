package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/shopspring/decimal"
)

func TestSquadService_CreateSquad_SetsBankAndLedgers(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())

	created, err := f.squads.CreateSquad(ctx, testSquadInput("manager-1"))
	if err != nil {
		t.Fatalf("create squad: %v", err)
	}
	if !created.Bank.Equal(decimal.RequireFromString("1.0")) {
		t.Fatalf("unexpected bank: got=%s want=1.0", created.Bank)
	}
	for _, p := range created.Players {
		if !p.PurchasePrice.Equal(p.CurrentPrice) {
			t.Fatalf("purchase price of %s not set to current: %s != %s", p.PlayerID, p.PurchasePrice, p.CurrentPrice)
		}
	}
	if !created.CreatedAt.Equal(testSeasonStart) {
		t.Fatalf("unexpected created at: %v", created.CreatedAt)
	}

	view, err := f.squads.GetManager(ctx, "manager-1")
	if err != nil {
		t.Fatalf("get manager: %v", err)
	}
	if view.Transfer.FreeTransfers != 1 {
		t.Fatalf("unexpected free transfers: got=%d want=1", view.Transfer.FreeTransfers)
	}
	if view.Transfer.Gameweek != 1 {
		t.Fatalf("unexpected transfer gameweek: got=%d want=1", view.Transfer.Gameweek)
	}
	for _, ct := range chip.AllTypes {
		if got := view.Chips.Remaining(ct); got != 1 {
			t.Fatalf("unexpected %s count: got=%d want=1", ct, got)
		}
	}
	if view.NetTransfers != 0 || view.PendingCost != 0 {
		t.Fatalf("fresh squad should have no pending transfers: net=%d cost=%d", view.NetTransfers, view.PendingCost)
	}
}

func TestSquadService_CreateSquad_RejectsDuplicateManager(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")

	_, err := f.squads.CreateSquad(ctx, testSquadInput("manager-1"))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSquadService_CreateSquad_ReturnsAllIssues(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())

	input := testSquadInput("manager-1")
	// Fourth PSJ player in place of a BU defender, no vice-captain.
	input.PlayerIDs[5] = "psj-def-2"
	input.ViceCaptainID = ""

	_, err := f.squads.CreateSquad(ctx, input)
	if !errors.Is(err, fantasy.ErrInvalidSquad) {
		t.Fatalf("expected ErrInvalidSquad, got %v", err)
	}
	var verr *fantasy.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *fantasy.ValidationError, got %T", err)
	}
	if !verr.Has(fantasy.IssueClubQuotaExceeded) {
		t.Fatalf("expected club quota issue, got %v", verr.Issues)
	}
	if !verr.Has(fantasy.IssueMissingViceCaptain) {
		t.Fatalf("expected missing vice-captain issue, got %v", verr.Issues)
	}
}

func TestSquadService_CreateSquad_UnknownPlayer(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())

	input := testSquadInput("manager-1")
	input.PlayerIDs[0] = "missing-player"

	_, err := f.squads.CreateSquad(ctx, input)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSquadService_CreateSquad_LockedAtDeadlineSecond(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.clock.Set(f.deadline)

	_, err := f.squads.CreateSquad(ctx, testSquadInput("manager-1"))
	if !errors.Is(err, gameweek.ErrGameweekLocked) {
		t.Fatalf("expected ErrGameweekLocked, got %v", err)
	}

	gw, exists, err := f.gwDB.GetByNumber(ctx, 1)
	if err != nil || !exists {
		t.Fatalf("get gameweek: exists=%v err=%v", exists, err)
	}
	if gw.Status != gameweek.StatusLocked {
		t.Fatalf("expected stored gameweek to be locked, got %s", gw.Status)
	}
}

func TestSquadService_ValidateDraft(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())

	input := testSquadInput("")
	issues, err := f.squads.ValidateDraft(ctx, DraftSquadInput{
		PlayerIDs:     input.PlayerIDs,
		CaptainID:     input.CaptainID,
		ViceCaptainID: input.ViceCaptainID,
		BenchOrder:    input.BenchOrder,
	})
	if err != nil {
		t.Fatalf("validate draft: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected legal draft, got %v", issues)
	}

	// Two goalkeepers in the starting XI.
	issues, err = f.squads.ValidateDraft(ctx, DraftSquadInput{
		PlayerIDs:     input.PlayerIDs,
		CaptainID:     input.CaptainID,
		ViceCaptainID: input.ViceCaptainID,
		BenchOrder:    []string{"psj-def-1", "psm-def-1", "psm-mid-1", "psm-fwd-1"},
	})
	if err != nil {
		t.Fatalf("validate draft: %v", err)
	}
	if len(issues) != 1 || issues[0].Kind != fantasy.IssueInvalidFormation {
		t.Fatalf("expected a single formation issue, got %v", issues)
	}
}

func TestSquadService_UpdateLineup(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")

	updated, err := f.squads.UpdateLineup(ctx, UpdateLineupInput{
		ManagerID:     "manager-1",
		CaptainID:     "psj-mid-1",
		ViceCaptainID: "prb-fwd-1",
		BenchOrder:    []string{"psb-gk-1", "psm-fwd-1", "psm-mid-1", "psm-def-1"},
	})
	if err != nil {
		t.Fatalf("update lineup: %v", err)
	}
	if updated.CaptainID != "psj-mid-1" || updated.BenchOrder[1] != "psm-fwd-1" {
		t.Fatalf("lineup not applied: captain=%s bench=%v", updated.CaptainID, updated.BenchOrder)
	}

	view, err := f.squads.GetManager(ctx, "manager-1")
	if err != nil {
		t.Fatalf("get manager: %v", err)
	}
	if view.Transfer.Original.CaptainID != "psj-mid-1" {
		t.Fatalf("lineup without transfers should reach the confirmed squad, got captain %s", view.Transfer.Original.CaptainID)
	}

	_, err = f.squads.UpdateLineup(ctx, UpdateLineupInput{
		ManagerID:     "manager-1",
		CaptainID:     "psj-mid-1",
		ViceCaptainID: "psj-mid-1",
		BenchOrder:    []string{"psb-gk-1", "psm-fwd-1", "psm-mid-1", "psm-def-1"},
	})
	var verr *fantasy.ValidationError
	if !errors.As(err, &verr) || !verr.Has(fantasy.IssueMissingViceCaptain) {
		t.Fatalf("expected vice-captain issue, got %v", err)
	}
}

func TestSquadService_GetManager_NotFound(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, DefaultEngineRules())
	_, err := f.squads.GetManager(t.Context(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
