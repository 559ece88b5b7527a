package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smartcontent/engine/internal/domain"
)

// statusFromError maps the engine error taxonomy onto HTTP statuses. Plain
// errors are treated as internal.
func statusFromError(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrorKindNotFound:
		return http.StatusNotFound
	case domain.ErrorKindInvalidInput:
		return http.StatusBadRequest
	case domain.ErrorKindConflict:
		return http.StatusConflict
	case domain.ErrorKindTimeout:
		return http.StatusGatewayTimeout
	case domain.ErrorKindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

// respondError logs the failure and writes the mapped status. Reasons from
// engine errors are safe to surface; internal errors are not echoed back.
func respondError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	logger := domain.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, msg, "error", err)

	status := statusFromError(err)

	message := http.StatusText(status)
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Reason
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: message})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write response", "error", err)
	}
}
