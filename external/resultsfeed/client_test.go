package resultsfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg ClientConfig) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	cfg.Logger = logging.NewNop()
	client := NewClient(cfg)
	client.backoff = time.Millisecond
	return client
}

func TestClient_ListFixtures(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gameweeks/3/fixtures" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[
			{"id":"fx-1","gameweek":3,"kickoff_at":"2026-03-07T12:00:00Z","finished":true},
			{"id":"fx-2","kickoff_at":"bad","status":"FT"},
			{"id":"fx-3","gameweek":3,"status":"NS"},
			{"id":"  "}
		]}`))
	}, ClientConfig{Token: "secret"})

	got, err := client.ListFixtures(context.Background(), 3)
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 fixtures, got %d", len(got))
	}
	if !got[0].Finished || !got[0].KickoffAt.Equal(time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first fixture: %+v", got[0])
	}
	if !got[1].Finished || got[1].Gameweek != 3 {
		t.Fatalf("FT status should mark the fixture finished in the requested gameweek: %+v", got[1])
	}
	if got[2].Finished {
		t.Fatalf("fixture fx-3 should not be finished")
	}
}

func TestClient_GetFixtureStats(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/fx-9/stats" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[
			{"player_id":"prb-fwd-1","minutes_played":90,"goals_scored":2,"assists":1,"touches":41,"duels_won":5,"bonus":3},
			{"player_id":"","minutes_played":90}
		]}`))
	}, ClientConfig{})

	got, err := client.GetFixtureStats(context.Background(), "fx-9")
	if err != nil {
		t.Fatalf("get fixture stats: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one stat line, got %d", len(got))
	}
	line := got[0]
	if line.FixtureID != "fx-9" || line.GoalsScored != 2 || line.Touches != 41 || line.DuelsWon != 5 {
		t.Fatalf("unexpected stat line: %+v", line)
	}
}

func TestClient_ListPlayerUpdates(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"player_id":"p1","price":"8.5"},
			{"player_id":"p2","status":"Injured"},
			{"player_id":"p3","status":"retired"},
			{"player_id":"p4"}
		]}`))
	}, ClientConfig{})

	got, err := client.ListPlayerUpdates(context.Background())
	if err != nil {
		t.Fatalf("list player updates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(got))
	}
	if got[0].Price == nil || !got[0].Price.Equal(decimal.RequireFromString("8.5")) {
		t.Fatalf("unexpected price update: %+v", got[0])
	}
	if got[1].Status == nil || *got[1].Status != player.StatusInjured {
		t.Fatalf("unexpected status update: %+v", got[1])
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}, ClientConfig{MaxRetries: 2})

	if _, err := client.ListFixtures(context.Background(), 1); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, ClientConfig{MaxRetries: 3})

	_, err := client.GetFixtureStats(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("404 should not be reported as an unavailable dependency")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, ClientConfig{CircuitBreaker: resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	}})

	for range 2 {
		if _, err := client.ListFixtures(context.Background(), 1); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	}
	if _, err := client.ListFixtures(context.Background(), 1); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker to reject, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open breaker must not reach the provider, calls=%d", calls.Load())
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial failed: Authorization: Bearer abc123 token=xyz", "xyz")
	want := "dial failed: Authorization: Bearer REDACTED token=REDACTED"
	if got != want {
		t.Fatalf("unexpected sanitized text: got=%q want=%q", got, want)
	}
}
