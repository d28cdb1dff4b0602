package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wadjakorntonsri/shortlink/pkg/core/domain"
)

// Client-facing error messages.
const (
	msgNotFound      = "Not found"
	msgLinkNotFound  = "Link not found"
	msgCodeExists    = "Code already exists"
	msgCodeReserved  = "Code is reserved"
	msgInvalidBody   = "Invalid request body"
	msgInternal      = "Internal server error"
	msgDBUnavailable = "DB connection failed"
)

type errorResponse struct {
	Error string `json:"error"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps a service error onto its status code. notFound is
// the message used for domain.ErrNotFound, which differs per endpoint.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrReservedCode):
		writeError(w, http.StatusConflict, msgCodeReserved)
	case errors.Is(err, domain.ErrDuplicateCode):
		writeError(w, http.StatusConflict, msgCodeExists)
	default:
		requestLogger(logger, r).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
