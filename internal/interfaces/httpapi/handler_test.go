package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

const testJobToken = "job-token"

const validSquadBody = `{
	"player_ids": [
		"psj-gk-1", "psb-gk-1",
		"psj-def-1", "psb-def-1", "prb-def-1", "bu-def-1", "psm-def-1",
		"psj-mid-1", "psb-mid-1", "prb-mid-1", "bu-mid-1", "psm-mid-1",
		"prb-fwd-1", "bu-fwd-1", "psm-fwd-1"
	],
	"captain_id": "prb-fwd-1",
	"vice_captain_id": "psj-mid-1",
	"bench_order": ["psb-gk-1", "psm-def-1", "psm-mid-1", "psm-fwd-1"]
}`

func newTestRouter(t *testing.T, deadline time.Time) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	rules := usecase.DefaultEngineRules()
	gameweeks := usecase.NewGameweekService(memory.NewGameweekRepository(gameweek.Gameweek{
		Number:   1,
		Deadline: deadline,
		Status:   gameweek.StatusActive,
	}), logger)
	playerDB := memory.NewPlayerRepository(memory.SeedPlayers())
	squads := usecase.NewSquadService(
		gameweeks,
		playerDB,
		memory.NewSquadRepository(),
		memory.NewTransferRepository(),
		memory.NewChipRepository(),
		rules,
		logger,
	)

	handler := NewHandler(Services{
		Gameweeks: gameweeks,
		Players:   usecase.NewPlayerService(gameweeks, playerDB, logger),
		Squads:    squads,
		Transfers: usecase.NewTransferService(gameweeks, squads, logger),
		Chips:     usecase.NewChipService(gameweeks, squads, logger),
		Scoring:   usecase.NewScoringService(gameweeks, squads, memory.NewScoringRepository(), 2, logger),
	}, logger)
	return NewRouter(handler, logger, nil, testJobToken)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, googleResponseEnvelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
	return rec, envelope
}

func dataMap(t *testing.T, envelope googleResponseEnvelope) map[string]any {
	t.Helper()
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", envelope.Data)
	}
	return data
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))
	rec, _ := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateAndGetSquad(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))

	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/managers/m-1/squad", validSquadBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	created := dataMap(t, envelope)
	if got := created["bank"]; got != "1" {
		t.Fatalf("expected bank 1, got %v", got)
	}

	rec, envelope = doRequest(t, router, http.MethodGet, "/v1/managers/m-1/squad", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	squad := dataMap(t, envelope)
	players, _ := squad["players"].([]any)
	if len(players) != 15 {
		t.Fatalf("expected 15 players, got %d", len(players))
	}
	if got := squad["captain_id"]; got != "prb-fwd-1" {
		t.Fatalf("expected captain prb-fwd-1, got %v", got)
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/managers/m-1/squad", validSquadBody)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a second squad, got %d", rec.Code)
	}
}

func TestCreateSquad_InvalidCompositionListsIssues(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))
	body := `{"player_ids": ["psj-gk-1", "psb-gk-1", "psj-def-1"], "captain_id": "psj-def-1", "vice_captain_id": "psj-gk-1"}`

	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/managers/m-2/squad", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	if envelope.Error == nil || len(envelope.Error.Errors) == 0 {
		t.Fatalf("expected error items")
	}
	found := false
	for _, item := range envelope.Error.Errors {
		if item.Reason == "InvalidComposition" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected InvalidComposition issue, got %+v", envelope.Error.Errors)
	}
}

func TestCreateSquad_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/managers/m-3/squad", `{"player_ids":["a"],"league_id":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Status != "INVALID_ARGUMENT" {
		t.Fatalf("expected INVALID_ARGUMENT, got %+v", envelope.Error)
	}
}

func TestValidateDraft_ReturnsIssuesWithoutFailing(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/squads/validate", validSquadBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := dataMap(t, envelope)["valid"]; got != true {
		t.Fatalf("expected a valid draft, got %v", got)
	}
}

func TestBuyPlayer_LockedGameweekReturnsMarketClosed(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(-time.Minute))
	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/managers/m-1/transfers/buy", `{"player_in_id":"psj-fwd-1","player_out_id":"prb-fwd-1"}`)
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected 423, got %d body=%s", rec.Code, rec.Body.String())
	}
	if envelope.Error == nil || envelope.Error.Errors[0].Reason != "marketClosed" {
		t.Fatalf("expected marketClosed, got %+v", envelope.Error)
	}
}

func TestActivateChip(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))
	if rec, _ := doRequest(t, router, http.MethodPost, "/v1/managers/m-1/squad", validSquadBody); rec.Code != http.StatusCreated {
		t.Fatalf("create squad: %d", rec.Code)
	}

	rec, _ := doRequest(t, router, http.MethodPut, "/v1/managers/m-1/chips/active", `{"chip":"supercaptain"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown chip, got %d", rec.Code)
	}

	rec, envelope := doRequest(t, router, http.MethodPut, "/v1/managers/m-1/chips/active", `{"chip":"triplecaptain"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	inv := dataMap(t, envelope)
	if got := inv["active"]; got != "triplecaptain" {
		t.Fatalf("expected triplecaptain active, got %v", got)
	}

	rec, envelope = doRequest(t, router, http.MethodPut, "/v1/managers/m-1/chips/active", `{"chip":"benchboost"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a second chip, got %d", rec.Code)
	}
	if envelope.Error.Errors[0].Reason != "invalidChip" {
		t.Fatalf("expected invalidChip, got %s", envelope.Error.Errors[0].Reason)
	}
}

func TestScorePlayer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))
	body := `{"position":"FWD","captain":true,"stats":{"minutes_played":90,"goals_scored":1}}`

	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/scoring/player", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data := dataMap(t, envelope)
	if got := data["base_points"]; got != float64(6) {
		t.Fatalf("expected base points 6, got %v", got)
	}
	if got := data["points"]; got != float64(12) {
		t.Fatalf("expected captain points 12, got %v", got)
	}
}

func TestAdminRoutesRequireJobToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))

	rec, _ := doRequest(t, router, http.MethodPost, "/v1/internal/gameweeks/lock", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec, envelope := doRequest(t, router, http.MethodPost, "/v1/internal/gameweeks/lock", "", internalJobTokenHeader, testJobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := dataMap(t, envelope)["locked"]; got != false {
		t.Fatalf("expected no lock before the deadline, got %v", got)
	}
}

func TestJobRoutesWithoutOrchestrator(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, time.Now().Add(24*time.Hour))
	rec, _ := doRequest(t, router, http.MethodPost, usecase.JobPathResultsSync, `{"gameweek":1}`, internalJobTokenHeader, testJobToken)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken_NotConfigured(t *testing.T) {
	t.Parallel()

	handler := RequireInternalJobToken("", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, usecase.JobPathMarketSync, nil)
	req.Header.Set(internalJobTokenHeader, "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
