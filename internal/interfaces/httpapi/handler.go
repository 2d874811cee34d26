package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

// Services groups the use cases the handler exposes. ResultsSync and Jobs are
// optional; their routes answer 503 when they are nil.
type Services struct {
	Gameweeks   *usecase.GameweekService
	Players     *usecase.PlayerService
	Squads      *usecase.SquadService
	Transfers   *usecase.TransferService
	Chips       *usecase.ChipService
	Scoring     *usecase.ScoringService
	ResultsSync *usecase.ResultsSyncService
	Jobs        *usecase.JobOrchestratorService
}

type Handler struct {
	gameweekService    *usecase.GameweekService
	playerService      *usecase.PlayerService
	squadService       *usecase.SquadService
	transferService    *usecase.TransferService
	chipService        *usecase.ChipService
	scoringService     *usecase.ScoringService
	resultsSyncService *usecase.ResultsSyncService
	jobOrchestrator    *usecase.JobOrchestratorService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameweekService:    services.Gameweeks,
		playerService:      services.Players,
		squadService:       services.Squads,
		transferService:    services.Transfers,
		chipService:        services.Chips,
		scoringService:     services.Scoring,
		resultsSyncService: services.ResultsSync,
		jobOrchestrator:    services.Jobs,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

const maxRequestBodyBytes = 1 << 20

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// decodeRequest reads a JSON body into out and validates it. An empty body
// is accepted only when allowEmpty is set, leaving out at its zero value.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, out any, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if !allowEmpty {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return h.validateRequest(ctx, out)
	}
	if err := strictJSON.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, out)
}

func pathManagerID(r *http.Request) (string, error) {
	managerID := strings.TrimSpace(r.PathValue("managerID"))
	if managerID == "" {
		return "", fmt.Errorf("%w: manager id is required", usecase.ErrInvalidInput)
	}
	return managerID, nil
}

func pathGameweek(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("gameweek"))
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		return 0, fmt.Errorf("%w: gameweek must be a positive integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return number, nil
}
