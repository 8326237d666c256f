package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/stickerlabapp/stickerlab/internal/db"
	"github.com/stickerlabapp/stickerlab/internal/fulfillment"
	"github.com/stickerlabapp/stickerlab/internal/pricing"
	"github.com/stickerlabapp/stickerlab/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

// writeError maps domain errors onto HTTP statuses: validation failures
// are unprocessable, state-machine and concurrency rejections are
// conflicts, missing rows are not found. Internal errors are logged and
// never leak their message.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		h.loggerFromContext(r.Context()).Error("request failed", "error", err, "path", r.URL.Path)
		message = "internal server error"
	}

	h.writeJSON(w, r, status, errorResponse{Error: message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrInvalidDimensions),
		errors.Is(err, services.ErrInvalidSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fulfillment.ErrUnknownStatus):
		return http.StatusBadRequest
	case errors.Is(err, fulfillment.ErrIllegalTransition),
		errors.Is(err, fulfillment.ErrTerminalState),
		errors.Is(err, db.ErrTransitionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeRequest reads, decodes, and validates a JSON request body.
func (h *Handlers) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := h.validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			field := invalid[0]
			return fmt.Errorf("invalid request: field %s failed %s validation", field.Field(), field.Tag())
		}
		return fmt.Errorf("invalid request: %w", err)
	}

	return nil
}

func (h *Handlers) writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
