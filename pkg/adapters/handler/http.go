package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wadjakorntonsri/shortlink/pkg/core/services"
	"github.com/wadjakorntonsri/shortlink/pkg/ports"
)

type HTTPHandler struct {
	service  ports.LinkService
	logger   *slog.Logger
	validate *validator.Validate
	version  string
	started  time.Time
	now      func() time.Time
}

func NewHTTPHandler(service ports.LinkService, logger *slog.Logger, version string) *HTTPHandler {
	return &HTTPHandler{
		service:  service,
		logger:   logger,
		validate: validator.New(),
		version:  version,
		started:  time.Now().UTC(),
		now:      time.Now,
	}
}

// CreateLinkRequest payload
type CreateLinkRequest struct {
	URL  string `json:"url" validate:"required"`
	Code string `json:"code,omitempty" validate:"omitempty,alphanum,min=6,max=8"`
}

// HealthResponse is the body of a successful GET /healthz.
type HealthResponse struct {
	OK        bool   `json:"ok"`
	Version   string `json:"version"`
	Uptime    int64  `json:"uptime"` // seconds
	StartedAt string `json:"startedAt"`
	Now       string `json:"now"`
}

type healthFailure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// List Links
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.ListLinks(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, msgLinkNotFound)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// Create Link
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	link, err := h.service.Shorten(r.Context(), req.URL, req.Code)
	if err != nil {
		writeServiceError(w, r, h.logger, err, msgLinkNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// Get a single link with its click stats
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.GetLink(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, msgLinkNotFound)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Delete Link
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLink(r.Context(), r.PathValue("code")); err != nil {
		writeServiceError(w, r, h.logger, err, msgLinkNotFound)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// Redirect to original URL, counting the click
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	target, err := h.service.Redirect(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, msgNotFound)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Health reports liveness and whether the database answers.
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Health(r.Context()); err != nil {
		requestLogger(h.logger, r).Error("health check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, healthFailure{OK: false, Error: msgDBUnavailable})
		return
	}

	now := h.now().UTC()
	writeJSON(w, http.StatusOK, HealthResponse{
		OK:        true,
		Version:   h.version,
		Uptime:    int64(now.Sub(h.started) / time.Second),
		StartedAt: h.started.Format(time.RFC3339),
		Now:       now.Format(time.RFC3339),
	})
}

// validationMessage reports the first failing field with the same wording the
// service uses, so clients see one message per problem whichever layer
// caught it.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return msgInvalidBody
	}
	switch fieldErrs[0].Field() {
	case "URL":
		return services.MsgURLRequired
	case "Code":
		return services.MsgInvalidCode
	}
	return msgInvalidBody
}
