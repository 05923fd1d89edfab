package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/markethub/user-card-service/internal/domain"
)

type apiError struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"status":  "success",
		"message": message,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeDomainError renders a mapped service error. Validation failures carry
// the per-field messages in details.
func writeDomainError(w http.ResponseWriter, err error, statusCode int, code, message string) {
	var fields domain.FieldErrors
	if errors.As(err, &fields) {
		writeJSON(w, statusCode, apiError{
			Status:  "error",
			Code:    code,
			Message: message,
			Details: fields,
		})
		return
	}
	writeError(w, statusCode, code, message)
}
