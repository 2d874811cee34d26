package httpapi

import "net/http"

func (h *Handler) GetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentGameweek")
	defer span.End()

	gw, err := h.gameweekService.Current(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

func (h *Handler) GetGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweek")
	defer span.End()

	number, err := pathGameweek(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gw, err := h.gameweekService.Get(ctx, number)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

// LockGameweek applies a due deadline lock immediately instead of waiting for
// the deadline watcher.
func (h *Handler) LockGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockGameweek")
	defer span.End()

	gw, locked, err := h.gameweekService.LockIfDue(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, struct {
		gameweekDTO
		Locked bool `json:"locked"`
	}{gameweekDTO: gameweekToDTO(gw), Locked: locked})
}

func (h *Handler) StartProcessing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartProcessing")
	defer span.End()

	number, err := pathGameweek(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gw, err := h.gameweekService.StartProcessing(ctx, number)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

func (h *Handler) StartSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartSeason")
	defer span.End()

	var req startSeasonRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	gw, err := h.gameweekService.StartSeason(ctx, req.Deadline)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "season started", "deadline", gw.Deadline)
	writeSuccess(ctx, w, http.StatusCreated, gameweekToDTO(gw))
}
