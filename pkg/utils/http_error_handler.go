package utils

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	Field     string `json:"field,omitempty"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{
		Status:  "error",
		Message: message,
	})
}

// WriteFieldError carries a machine-readable code and the offending field
// so submission errors stay actionable on the client side.
func WriteFieldError(w http.ResponseWriter, message, code, field string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{
		Status:    "error",
		Message:   message,
		ErrorCode: code,
		Field:     field,
	})
}
