package httpapi

import (
	"net/http"

	idgen "github.com/riskibarqy/fantasy-rules-engine/internal/platform/id"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerCatalogRoutes(mux, handler)
	registerManagerRoutes(mux, handler)
	registerAdminRoutes(mux, handler, internalJobToken)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	requestIDs := idgen.NewUUIDGenerator("req")
	return RequestTracing(RequestID(requestIDs, RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux)))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/gameweeks/current", handler.GetCurrentGameweek)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}", handler.GetGameweek)
	mux.HandleFunc("POST /v1/squads/validate", handler.ValidateDraft)
	mux.HandleFunc("POST /v1/scoring/player", handler.ScorePlayer)
}

func registerManagerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/managers/{managerID}", handler.GetManager)
	mux.HandleFunc("POST /v1/managers/{managerID}/squad", handler.CreateSquad)
	mux.HandleFunc("GET /v1/managers/{managerID}/squad", handler.GetSquad)
	mux.HandleFunc("GET /v1/managers/{managerID}/squad/validation", handler.ValidateManagerSquad)
	mux.HandleFunc("PUT /v1/managers/{managerID}/lineup", handler.UpdateLineup)

	mux.HandleFunc("GET /v1/managers/{managerID}/transfers", handler.GetTransferState)
	mux.HandleFunc("PUT /v1/managers/{managerID}/transfers/selection", handler.SelectOutgoing)
	mux.HandleFunc("DELETE /v1/managers/{managerID}/transfers/selection", handler.ClearSelection)
	mux.HandleFunc("POST /v1/managers/{managerID}/transfers/buy", handler.BuyPlayer)
	mux.HandleFunc("POST /v1/managers/{managerID}/transfers/confirm", handler.ConfirmTransfers)
	mux.HandleFunc("POST /v1/managers/{managerID}/transfers/reset", handler.ResetTransfers)
	mux.HandleFunc("GET /v1/managers/{managerID}/players/{playerID}/selling-price", handler.GetSellingPrice)

	mux.HandleFunc("GET /v1/managers/{managerID}/chips", handler.GetChips)
	mux.HandleFunc("PUT /v1/managers/{managerID}/chips/active", handler.ActivateChip)
	mux.HandleFunc("DELETE /v1/managers/{managerID}/chips/active", handler.DeactivateChip)

	mux.HandleFunc("GET /v1/managers/{managerID}/points", handler.ListManagerPoints)
	mux.HandleFunc("GET /v1/managers/{managerID}/points/live", handler.GetLivePoints)
	mux.HandleFunc("GET /v1/managers/{managerID}/points/{gameweek}", handler.GetManagerPoints)
}

// registerAdminRoutes exposes the lifecycle and data-feed operations. They
// share the internal job token with the queue callbacks.
func registerAdminRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireInternalJobToken(internalJobToken, fn))
	}

	admin("POST /v1/internal/season/start", handler.StartSeason)
	admin("POST /v1/internal/gameweeks/lock", handler.LockGameweek)
	admin("POST /v1/internal/gameweeks/{gameweek}/processing", handler.StartProcessing)
	admin("POST /v1/internal/gameweeks/{gameweek}/fixtures", handler.IngestFixture)
	admin("POST /v1/internal/gameweeks/{gameweek}/sync", handler.SyncResults)
	admin("POST /v1/internal/gameweeks/{gameweek}/finalize", handler.FinalizeGameweek)
	admin("POST /v1/internal/players", handler.ImportPlayers)
	admin("PUT /v1/internal/players/market", handler.UpdatePlayerMarket)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST "+usecase.JobPathResultsSync, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResultsSyncJob)))
	mux.Handle("POST "+usecase.JobPathMarketSync, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunMarketSyncJob)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
