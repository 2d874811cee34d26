package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

func (h *Handler) CreateSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSquad")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req createSquadRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.squadService.CreateSquad(ctx, usecase.CreateSquadInput{
		ManagerID:     managerID,
		PlayerIDs:     req.PlayerIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
		BenchOrder:    req.BenchOrder,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create squad failed", "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, squadToDTO(squad))
}

func (h *Handler) GetManager(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetManager")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.squadService.GetManager(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, managerToDTO(view))
}

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.squadService.GetSquad(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) ValidateManagerSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateManagerSquad")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	issues, err := h.squadService.ValidateManagerSquad(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, issuesToDTO(issues))
}

// ValidateDraft reports rule violations for a squad that is not stored. It
// answers 200 with the issue list instead of rejecting the request.
func (h *Handler) ValidateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateDraft")
	defer span.End()

	var req draftSquadRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	issues, err := h.squadService.ValidateDraft(ctx, usecase.DraftSquadInput{
		PlayerIDs:     req.PlayerIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
		BenchOrder:    req.BenchOrder,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, issuesToDTO(issues))
}

func (h *Handler) UpdateLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateLineup")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req updateLineupRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.squadService.UpdateLineup(ctx, usecase.UpdateLineupInput{
		ManagerID:     managerID,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
		BenchOrder:    req.BenchOrder,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update lineup failed", "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}
