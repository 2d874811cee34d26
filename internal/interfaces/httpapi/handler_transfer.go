package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
	"github.com/shopspring/decimal"
)

func (h *Handler) GetTransferState(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTransferState")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.transferService.GetState(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferStateToDTO(state))
}

func (h *Handler) SelectOutgoing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectOutgoing")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req selectOutgoingRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.transferService.SelectOutgoing(ctx, managerID, req.PlayerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferStateToDTO(state))
}

func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearSelection")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.transferService.ClearSelection(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferStateToDTO(state))
}

func (h *Handler) BuyPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuyPlayer")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req buyPlayerRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.transferService.Buy(ctx, usecase.BuyInput{
		ManagerID:   managerID,
		PlayerInID:  req.PlayerInID,
		PlayerOutID: req.PlayerOutID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) ConfirmTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmTransfers")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.Confirm(ctx, managerID)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm transfers failed", "manager_id", managerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, confirmDTO{
		Gameweek:          result.Gameweek,
		NetTransfers:      result.NetTransfers,
		Cost:              result.Cost,
		FreeTransfers:     result.FreeTransfers,
		GameweekPointsHit: result.GameweekPointsHit,
		Chip:              result.Chip,
	})
}

func (h *Handler) ResetTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetTransfers")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.transferService.Reset(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) GetSellingPrice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSellingPrice")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID := strings.TrimSpace(r.PathValue("playerID"))

	price, err := h.transferService.SellingPrice(ctx, managerID, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, struct {
		PlayerID     string          `json:"player_id"`
		SellingPrice decimal.Decimal `json:"selling_price"`
	}{PlayerID: playerID, SellingPrice: price})
}
