package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/username/tokoledger/backend/src/logger"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/security/validation"
	"github.com/username/tokoledger/backend/src/utils"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// ContextualLoggerMiddleware attaches a request-scoped logger with a
// generated request ID to every request's context.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		ctxLogger := logger.L.With(slog.String("requestID", requestID))

		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// respondDomainError maps ledger-core errors onto HTTP statuses and writes the
// standard envelope.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, validation.ErrValidationFailed):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrAtomicWriteFailed):
		// The wrapped store failure stays in the log; clients get no detail.
		logger.FromContext(r.Context()).Error("Atomic write failed", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "internal server error", status)
		return
	default:
		logger.FromContext(r.Context()).Error("Unhandled error", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "internal server error", status)
		return
	}
	utils.SendJSONError(w, err.Error(), status)
}
