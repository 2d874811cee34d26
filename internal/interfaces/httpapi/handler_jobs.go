package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

func (h *Handler) RunResultsSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResultsSyncJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobSyncRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobOrchestrator.RunResultsSync(ctx, usecase.JobSyncInput{Gameweek: req.Gameweek})
	if err != nil {
		h.logger.WarnContext(ctx, "run results sync job failed", "gameweek", req.Gameweek, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "results sync job completed", "gameweek", result.Gameweek, "dispatch_id", req.DispatchID, "queued", result.QueuedCount)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunMarketSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMarketSyncJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobSyncRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobOrchestrator.RunMarketSync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run market sync job failed", "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// SyncResults runs one results sync for the gameweek in the path without
// scheduling a follow-up.
func (h *Handler) SyncResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncResults")
	defer span.End()

	if h.resultsSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: results feed is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	number, err := pathGameweek(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.resultsSyncService.SyncResults(ctx, number)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
