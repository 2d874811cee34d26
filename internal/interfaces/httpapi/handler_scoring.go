package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

func (h *Handler) ScorePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScorePlayer")
	defer span.End()

	var req scorePlayerRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.ScorePlayer(usecase.ScorePlayerInput{
		Stats:    req.Stats.toDomain(0),
		Position: player.Position(req.Position),
		Captain:  req.Captain,
		Chip:     chip.Type(req.Chip),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorePlayerDTO{
		Breakdown:  breakdownToDTO(result.Breakdown),
		BasePoints: result.BasePoints,
		Multiplier: result.Multiplier,
		Points:     result.Points,
	})
}

func (h *Handler) IngestFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestFixture")
	defer span.End()

	number, err := pathGameweek(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req ingestFixtureRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.IngestFixtureInput{Gameweek: number, FixtureID: req.FixtureID}
	for _, line := range req.Stats {
		stats := line.toDomain(number)
		if stats.FixtureID == "" {
			stats.FixtureID = req.FixtureID
		}
		input.Stats = append(input.Stats, stats)
	}

	scores, err := h.scoringService.IngestFixture(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest fixture failed", "gameweek", number, "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerScoresToDTO(scores))
}

func (h *Handler) FinalizeGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeGameweek")
	defer span.End()

	number, err := pathGameweek(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req finalizeGameweekRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.FinalizeGameweek(ctx, usecase.FinalizeGameweekInput{
		Gameweek:     number,
		NextDeadline: req.NextDeadline,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "finalize gameweek failed", "gameweek", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, finalizeDTO{
		Gameweek:       gameweekToDTO(result.Gameweek),
		Next:           gameweekToDTO(result.Next),
		ManagersScored: result.ManagersScored,
		PlayersUpdated: result.PlayersUpdated,
		WorkerCount:    result.WorkerCount,
	})
}

func (h *Handler) ListManagerPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListManagerPoints")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.scoringService.ListManagerPoints(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]managerPointsDTO, 0, len(items))
	total := 0
	for _, item := range items {
		out = append(out, managerPointsToDTO(item))
		total += item.TotalPoints
	}
	writeSuccess(ctx, w, http.StatusOK, struct {
		SeasonPoints int                `json:"season_points"`
		Gameweeks    []managerPointsDTO `json:"gameweeks"`
	}{SeasonPoints: total, Gameweeks: out})
}

func (h *Handler) GetManagerPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetManagerPoints")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	number, err := pathGameweek(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	points, err := h.scoringService.GetManagerPoints(ctx, managerID, number)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, managerPointsToDTO(points))
}

// GetLivePoints scores the manager's current squad against the fixtures
// ingested so far without storing anything.
func (h *Handler) GetLivePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLivePoints")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	points, err := h.scoringService.LiveManagerPoints(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, managerPointsToDTO(points))
}
