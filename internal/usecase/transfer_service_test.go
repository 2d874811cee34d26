package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
	"github.com/shopspring/decimal"
)

// Three like-for-like swaps into PSS, each one cheaper than the player sold.
var testSwaps = []BuyInput{
	{PlayerOutID: "psm-def-1", PlayerInID: "pss-def-1"},
	{PlayerOutID: "psm-mid-1", PlayerInID: "pss-mid-1"},
	{PlayerOutID: "psm-fwd-1", PlayerInID: "pss-fwd-1"},
}

func TestTransferService_BuyAndConfirm_ChargesExtraTransfers(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")

	var squadAfter decimal.Decimal
	for _, swap := range testSwaps {
		swap.ManagerID = "manager-1"
		squad, err := f.transfers.Buy(ctx, swap)
		if err != nil {
			t.Fatalf("buy %s: %v", swap.PlayerInID, err)
		}
		squadAfter = squad.Bank
	}
	// 1.0 + (5.5-4.5) + (6.5-6.0) + (7.5-7.0)
	if !squadAfter.Equal(decimal.RequireFromString("3.0")) {
		t.Fatalf("unexpected bank after swaps: got=%s want=3.0", squadAfter)
	}

	result, err := f.transfers.Confirm(ctx, "manager-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if result.NetTransfers != 3 || result.Cost != 8 {
		t.Fatalf("unexpected confirm result: net=%d cost=%d", result.NetTransfers, result.Cost)
	}
	if result.FreeTransfers != 0 || result.GameweekPointsHit != 8 {
		t.Fatalf("unexpected bookkeeping: free=%d hit=%d", result.FreeTransfers, result.GameweekPointsHit)
	}

	state, err := f.transfers.GetState(ctx, "manager-1")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if !state.Original.Has("pss-fwd-1") || state.Original.Has("psm-fwd-1") {
		t.Fatalf("confirmed squad not snapshotted")
	}
}

func TestTransferService_Buy_BudgetInvariant(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")

	before, err := f.squads.GetSquad(ctx, "manager-1")
	if err != nil {
		t.Fatalf("get squad: %v", err)
	}
	for _, swap := range testSwaps {
		swap.ManagerID = "manager-1"
		after, err := f.transfers.Buy(ctx, swap)
		if err != nil {
			t.Fatalf("buy %s: %v", swap.PlayerInID, err)
		}
		if got, want := after.Value().Add(after.Bank), before.Value().Add(before.Bank); !got.Equal(want) {
			t.Fatalf("value plus bank changed: got=%s want=%s", got, want)
		}
	}
}

func TestTransferService_Buy_Preconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   BuyInput
		wantErr error
	}{
		{
			name:    "no outgoing selection",
			input:   BuyInput{PlayerInID: "pss-def-1"},
			wantErr: transfer.ErrNoSelectionForSwap,
		},
		{
			name:    "position mismatch",
			input:   BuyInput{PlayerOutID: "psm-def-1", PlayerInID: "pss-mid-1"},
			wantErr: transfer.ErrPositionMismatch,
		},
		{
			name:    "insufficient funds",
			input:   BuyInput{PlayerOutID: "psm-fwd-1", PlayerInID: "psb-fwd-1"},
			wantErr: transfer.ErrInsufficientFunds,
		},
		{
			name:    "club quota",
			input:   BuyInput{PlayerOutID: "psm-def-1", PlayerInID: "psj-def-2"},
			wantErr: transfer.ErrClubQuotaExceeded,
		},
		{
			name:    "outgoing not owned",
			input:   BuyInput{PlayerOutID: "pss-def-1", PlayerInID: "are-def-1"},
			wantErr: transfer.ErrPlayerNotInSquad,
		},
		{
			name:    "unknown incoming player",
			input:   BuyInput{PlayerOutID: "psm-def-1", PlayerInID: "missing"},
			wantErr: ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := t.Context()
			f := newEngineFixture(t, DefaultEngineRules())
			f.createSquad(t, ctx, "manager-1")

			tc.input.ManagerID = "manager-1"
			_, err := f.transfers.Buy(ctx, tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}

			view, err := f.squads.GetManager(ctx, "manager-1")
			if err != nil {
				t.Fatalf("get manager: %v", err)
			}
			if view.NetTransfers != 0 || !view.Squad.Bank.Equal(decimal.RequireFromString("1.0")) {
				t.Fatalf("failed buy must not change the squad: net=%d bank=%s", view.NetTransfers, view.Squad.Bank)
			}
		})
	}
}

func TestTransferService_Buy_MarketClosedAfterDeadline(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")
	f.clock.Set(f.deadline)

	_, err := f.transfers.Buy(ctx, BuyInput{ManagerID: "manager-1", PlayerOutID: "psm-def-1", PlayerInID: "pss-def-1"})
	if !errors.Is(err, transfer.ErrMarketClosed) {
		t.Fatalf("expected ErrMarketClosed, got %v", err)
	}
	if !errors.Is(err, gameweek.ErrGameweekLocked) {
		t.Fatalf("expected ErrGameweekLocked in chain, got %v", err)
	}

	if _, err := f.transfers.Confirm(ctx, "manager-1"); !errors.Is(err, transfer.ErrMarketClosed) {
		t.Fatalf("expected confirm to fail with ErrMarketClosed, got %v", err)
	}

	// Reads stay available while locked.
	if _, err := f.transfers.GetState(ctx, "manager-1"); err != nil {
		t.Fatalf("get state while locked: %v", err)
	}
}

func TestTransferService_Buy_QueuedBehindDeadlineIsRejected(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")

	unlock := f.squads.store.locks.Lock("manager-1")
	buyErr := make(chan error, 1)
	go func() {
		_, err := f.transfers.Buy(ctx, BuyInput{ManagerID: "manager-1", PlayerOutID: "psm-def-1", PlayerInID: "pss-def-1"})
		buyErr <- err
	}()
	chipErr := make(chan error, 1)
	go func() {
		_, err := f.chips.Activate(ctx, "manager-1", string(chip.BenchBoost))
		chipErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	f.clock.Set(f.deadline.Add(time.Second))
	unlock()

	if err := <-buyErr; !errors.Is(err, transfer.ErrMarketClosed) {
		t.Fatalf("expected queued buy to fail with ErrMarketClosed, got %v", err)
	}
	if err := <-chipErr; !errors.Is(err, gameweek.ErrGameweekLocked) {
		t.Fatalf("expected queued chip activation to fail with ErrGameweekLocked, got %v", err)
	}

	squad, err := f.squads.GetSquad(ctx, "manager-1")
	if err != nil {
		t.Fatalf("get squad: %v", err)
	}
	if squad.Has("pss-def-1") {
		t.Fatalf("queued buy must not reach the squad after the deadline")
	}
	inv, err := f.chips.Get(ctx, "manager-1")
	if err != nil {
		t.Fatalf("get chips: %v", err)
	}
	if _, active := inv.ActiveFor(1); active {
		t.Fatalf("queued chip activation must not stick after the deadline")
	}
}

func TestTransferService_Confirm_WildcardIsFree(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")

	if _, err := f.chips.Activate(ctx, "manager-1", "wildcard"); err != nil {
		t.Fatalf("activate wildcard: %v", err)
	}
	for _, swap := range testSwaps {
		swap.ManagerID = "manager-1"
		if _, err := f.transfers.Buy(ctx, swap); err != nil {
			t.Fatalf("buy %s: %v", swap.PlayerInID, err)
		}
	}

	result, err := f.transfers.Confirm(ctx, "manager-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if result.Cost != 0 || result.Chip != chip.Wildcard {
		t.Fatalf("expected free wildcard confirm, got cost=%d chip=%s", result.Cost, result.Chip)
	}
}

func TestTransferService_Reset_RestoresConfirmedSquad(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")

	if _, err := f.transfers.Buy(ctx, BuyInput{ManagerID: "manager-1", PlayerOutID: "psm-def-1", PlayerInID: "pss-def-1"}); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := f.transfers.SelectOutgoing(ctx, "manager-1", "psm-mid-1"); err != nil {
		t.Fatalf("select outgoing: %v", err)
	}

	restored, err := f.transfers.Reset(ctx, "manager-1")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !restored.Has("psm-def-1") || restored.Has("pss-def-1") {
		t.Fatalf("reset did not restore players")
	}
	if !restored.Bank.Equal(decimal.RequireFromString("1.0")) {
		t.Fatalf("unexpected bank after reset: %s", restored.Bank)
	}

	state, err := f.transfers.GetState(ctx, "manager-1")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.PendingOut != "" {
		t.Fatalf("reset should clear the outgoing selection, got %q", state.PendingOut)
	}
}

func TestTransferService_SellingPrice(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	f.createSquad(t, ctx, "manager-1")

	// Bought at 7.5, now 8.8: profit 1.3 gives a 0.6 gain.
	price := decimal.RequireFromString("8.8")
	if _, err := f.players.UpdateMarket(ctx, []PlayerMarketUpdate{{PlayerID: "psm-fwd-1", Price: &price}}); err != nil {
		t.Fatalf("update market: %v", err)
	}

	got, err := f.transfers.SellingPrice(ctx, "manager-1", "psm-fwd-1")
	if err != nil {
		t.Fatalf("selling price: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("8.1")) {
		t.Fatalf("unexpected selling price: got=%s want=8.1", got)
	}

	if _, err := f.transfers.SellingPrice(ctx, "manager-1", "pss-fwd-1"); !errors.Is(err, transfer.ErrPlayerNotInSquad) {
		t.Fatalf("expected ErrPlayerNotInSquad, got %v", err)
	}
}

func TestTransferService_SerializesPerManager(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	f := newEngineFixture(t, DefaultEngineRules())
	managers := []string{"manager-1", "manager-2", "manager-3"}
	for _, id := range managers {
		f.createSquad(t, ctx, id)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(managers)*len(testSwaps))
	for _, id := range managers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, swap := range testSwaps {
				swap.ManagerID = id
				if _, err := f.transfers.Buy(ctx, swap); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent buy: %v", err)
	}

	for _, id := range managers {
		view, err := f.squads.GetManager(ctx, id)
		if err != nil {
			t.Fatalf("get manager %s: %v", id, err)
		}
		if view.NetTransfers != 3 {
			t.Fatalf("manager %s: unexpected net transfers %d", id, view.NetTransfers)
		}
	}
}
