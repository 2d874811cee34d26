package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/chip"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/player"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-rules-engine/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "fantasy-rules-engine"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain   string `json:"domain"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors:  errorItems(mapped, err),
		},
	})
}

// errorItems expands a squad validation failure into one item per issue so
// clients can show every violated rule at once.
func errorItems(mapped mappedError, err error) []googleErrorItem {
	var validationErr *fantasy.ValidationError
	if !errors.As(err, &validationErr) || len(validationErr.Issues) == 0 {
		return []googleErrorItem{
			{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: err.Error(),
			},
		}
	}

	items := make([]googleErrorItem, 0, len(validationErr.Issues))
	for _, issue := range validationErr.Issues {
		items = append(items, googleErrorItem{
			Domain:   errorDomain,
			Reason:   string(issue.Kind),
			Message:  issue.Message,
			Location: issue.Club,
		})
	}
	return items
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	// ErrMarketClosed wraps ErrGameweekLocked, so it has to be matched first.
	case errors.Is(err, transfer.ErrMarketClosed):
		return mappedError{
			HTTPStatus: http.StatusLocked,
			Reason:     "marketClosed",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, gameweek.ErrGameweekLocked):
		return mappedError{
			HTTPStatus: http.StatusLocked,
			Reason:     "gameweekLocked",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, fantasy.ErrInvalidSquad):
		return mappedError{
			HTTPStatus: http.StatusUnprocessableEntity,
			Reason:     "invalidSquad",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, transfer.ErrInsufficientFunds):
		return mappedError{
			HTTPStatus: http.StatusUnprocessableEntity,
			Reason:     "insufficientFunds",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, transfer.ErrClubQuotaExceeded):
		return mappedError{
			HTTPStatus: http.StatusUnprocessableEntity,
			Reason:     "clubQuotaExceeded",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, transfer.ErrPositionMismatch):
		return mappedError{
			HTTPStatus: http.StatusUnprocessableEntity,
			Reason:     "positionMismatch",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, transfer.ErrNoSelectionForSwap):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "noSelectionForSwap",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, transfer.ErrPlayerNotInSquad):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "playerNotInSquad",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, transfer.ErrPlayerAlreadyInSquad):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "playerAlreadyInSquad",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, chip.ErrInvalidChip):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "invalidChip",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, gameweek.ErrInvalidTransition):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "invalidTransition",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, scoring.ErrInvalidStats),
		errors.Is(err, player.ErrUnknownPosition),
		errors.Is(err, player.ErrUnknownStatus),
		errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrAlreadyExists):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "alreadyExists",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{
			HTTPStatus: http.StatusUnauthorized,
			Reason:     "unauthorized",
			Status:     "UNAUTHENTICATED",
		}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "dependencyUnavailable",
			Status:     "UNAVAILABLE",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
