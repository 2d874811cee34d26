package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	filter := usecase.PlayerFilter{Club: strings.TrimSpace(r.URL.Query().Get("club"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("position")); raw != "" {
		pos, err := player.ParsePosition(raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		filter.Position = pos
	}

	players, err := h.playerService.ListPlayers(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	item, err := h.playerService.GetPlayer(ctx, r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportPlayers")
	defer span.End()

	var req importPlayersRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	players := make([]player.Player, 0, len(req.Players))
	for _, item := range req.Players {
		status := player.StatusAvailable
		if item.Status != "" {
			status = player.Status(item.Status)
		}
		players = append(players, player.Player{
			ID:           item.ID,
			Name:         item.Name,
			Club:         item.Club,
			Position:     player.Position(item.Position),
			CurrentPrice: item.Price,
			Status:       status,
		})
	}

	imported, err := h.playerService.ImportPlayers(ctx, players)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"imported": imported})
}

func (h *Handler) UpdatePlayerMarket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayerMarket")
	defer span.End()

	var req marketUpdatesRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	updates := make([]usecase.PlayerMarketUpdate, 0, len(req.Updates))
	for _, item := range req.Updates {
		update := usecase.PlayerMarketUpdate{PlayerID: item.PlayerID, Price: item.Price}
		if item.Status != nil {
			status := player.Status(*item.Status)
			update.Status = &status
		}
		updates = append(updates, update)
	}

	players, err := h.playerService.UpdateMarket(ctx, updates)
	if err != nil {
		h.logger.WarnContext(ctx, "update player market failed", "updates", len(updates), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}
