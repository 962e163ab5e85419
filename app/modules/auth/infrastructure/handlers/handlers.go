package authhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	authservice "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/application"
)

// Handlers serves the auth HTTP endpoints.
type Handlers interface {
	// HandleIssueToken mints a bearer token for the owner named in the body.
	// It is mounted only outside production, where an external identity
	// provider issues tokens instead.
	HandleIssueToken(w http.ResponseWriter, r *http.Request)
}

// AuthHandlers implements the Handlers interface.
type AuthHandlers struct {
	service authservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(
	service authservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &AuthHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// IssueTokenRequest is the body of a token request.
type IssueTokenRequest struct {
	OwnerID    string `json:"owner_id"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
}

func (h *AuthHandlers) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleIssueToken")
	defer span.End()

	var req IssueTokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.IssueToken(ctx, req.OwnerID, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		if errors.Is(err, authservice.ErrMissingOwner) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to issue token", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
