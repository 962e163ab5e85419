package scorecardhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	scorecardservice "github.com/Black-And-White-Club/golf-handicap/app/modules/scorecard/application"
)

// DefaultMaxUploadBytes caps scorecard photos when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// Handlers serves the scorecard endpoints.
type Handlers interface {
	HandleScan(w http.ResponseWriter, r *http.Request)
}

// ScorecardHandlers implements Handlers.
type ScorecardHandlers struct {
	service        scorecardservice.Service
	logger         *slog.Logger
	tracer         trace.Tracer
	maxUploadBytes int64
}

var _ Handlers = (*ScorecardHandlers)(nil)

// NewScorecardHandlers creates a new ScorecardHandlers.
func NewScorecardHandlers(service scorecardservice.Service, logger *slog.Logger, tracer trace.Tracer, maxUploadBytes int64) *ScorecardHandlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &ScorecardHandlers{
		service:        service,
		logger:         logger,
		tracer:         tracer,
		maxUploadBytes: maxUploadBytes,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleScan reads a photo from the multipart "image" field and returns the
// fields found on it along with prefilled form values.
func (h *ScorecardHandlers) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScorecardHandlers.HandleScan")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "image too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: `multipart field "image" is required`})
		return
	}
	defer file.Close()

	result, err := h.service.Scan(ctx, file)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: result.Failure.Reason})
		return
	}
	writeJSON(w, http.StatusOK, result.Success)
}

func (h *ScorecardHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Scorecard scan failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	switch {
	case errors.Is(err, scorecardservice.ErrOCRFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "text recognition failed"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "scanner busy, try again"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
