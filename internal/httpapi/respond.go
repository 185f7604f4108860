package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/susu/internal/club"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a registry error onto the JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{
		Error: errorBody{
			Code:    club.Kind(err),
			Message: err.Error(),
		},
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, club.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, club.ErrMembershipConflict):
		return http.StatusConflict
	case errors.Is(err, club.ErrNotAMember):
		return http.StatusNotFound
	case errors.Is(err, club.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, club.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, club.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, club.ErrOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, club.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
