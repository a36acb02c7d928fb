package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/taskboard/internal/identity"
	"github.com/mesh-intelligence/taskboard/internal/logging"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case errors.Is(err, types.ErrInvalidCredentials), errors.Is(err, types.ErrEmailAlreadyExists):
		msg = identity.Message(err)
	case status == http.StatusInternalServerError:
		logging.Error(r.Context(), "request failed", zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotAuthenticated), errors.Is(err, types.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidTitle),
		errors.Is(err, types.ErrInvalidPriority),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidDueDate),
		errors.Is(err, types.ErrInvalidTheme),
		errors.Is(err, types.ErrInvalidEmail),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
