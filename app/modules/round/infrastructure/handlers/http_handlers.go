package roundhandlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/golf-handicap/app/modules/auth/domain"
	roundservice "github.com/Black-And-White-Club/golf-handicap/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-handicap/app/modules/round/domain"
)

// failureResponse is the body returned for rejected input.
type failureResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

func (h *RoundHandlers) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RoundHandlers.HandleListRounds")
	defer span.End()

	rounds, err := h.service.ListRounds(ctx, authdomain.OwnerIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rounds": rounds})
}

func (h *RoundHandlers) HandleRecordRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RoundHandlers.HandleRecordRound")
	defer span.End()

	var in rounddomain.RoundInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, failureResponse{Error: "invalid request body", Errors: []string{err.Error()}})
		return
	}

	result, err := h.service.RecordRound(ctx, authdomain.OwnerIDFromContext(ctx), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}
	writeJSON(w, http.StatusCreated, result.Success)
}

func (h *RoundHandlers) HandleClearRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RoundHandlers.HandleClearRounds")
	defer span.End()

	result, err := h.service.ClearRounds(ctx, authdomain.OwnerIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}
	writeJSON(w, http.StatusOK, result.Success)
}

func (h *RoundHandlers) HandleLoadDemoRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RoundHandlers.HandleLoadDemoRounds")
	defer span.End()

	result, err := h.service.LoadDemoRounds(ctx, authdomain.OwnerIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}
	writeJSON(w, http.StatusCreated, result.Success)
}

// HandleImportRounds accepts a multipart upload with the history in the "file" field.
func (h *RoundHandlers) HandleImportRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RoundHandlers.HandleImportRounds")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImportBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, failureResponse{Error: "file too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, failureResponse{Error: `multipart field "file" is required`})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failureResponse{Error: "could not read upload"})
		return
	}

	result, err := h.service.ImportRounds(ctx, authdomain.OwnerIDFromContext(ctx), header.Filename, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		writeFailure(w, *result.Failure)
		return
	}
	writeJSON(w, http.StatusCreated, result.Success)
}

func (h *RoundHandlers) HandleGetHandicap(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RoundHandlers.HandleGetHandicap")
	defer span.End()

	summary, err := h.service.HandicapIndex(ctx, authdomain.OwnerIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *RoundHandlers) HandleHandicapChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RoundHandlers.HandleHandicapChart")
	defer span.End()

	png, err := h.service.HandicapChart(ctx, authdomain.OwnerIDFromContext(ctx))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *RoundHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, roundservice.ErrMissingOwner) {
		writeJSON(w, http.StatusUnauthorized, failureResponse{Error: roundservice.ErrMissingOwner.Error()})
		return
	}
	h.logger.ErrorContext(r.Context(), "Round request failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	writeJSON(w, http.StatusInternalServerError, failureResponse{Error: "internal error"})
}

func writeFailure(w http.ResponseWriter, f roundservice.RoundFailure) {
	writeJSON(w, http.StatusUnprocessableEntity, failureResponse{Error: f.Reason, Errors: f.Errors})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
