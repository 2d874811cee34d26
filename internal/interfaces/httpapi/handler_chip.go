package httpapi

import "net/http"

func (h *Handler) GetChips(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChips")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	inv, err := h.chipService.Get(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, chipInventoryToDTO(inv))
}

func (h *Handler) ActivateChip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateChip")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req activateChipRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	inv, err := h.chipService.Activate(ctx, managerID, req.Chip)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, chipInventoryToDTO(inv))
}

func (h *Handler) DeactivateChip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateChip")
	defer span.End()

	managerID, err := pathManagerID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	inv, refunded, err := h.chipService.Deactivate(ctx, managerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, struct {
		chipInventoryDTO
		Refunded bool `json:"refunded"`
	}{chipInventoryDTO: chipInventoryToDTO(inv), Refunded: refunded})
}
