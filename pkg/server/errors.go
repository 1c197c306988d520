package server

import (
	"encoding/json"
	"net/http"

	"github.com/bascanada/fhirquery/pkg/ty"
)

// APIError is a standardized error response structure.
type APIError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
	Details ty.MI  `json:"details,omitempty"`
}

const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeConfigError     = "CONFIG_ERROR"
)

// writeJSON writes a JSON response with a given status code.
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write json response", "err", err)
	}
}

// writeError writes a standardized APIError response.
func (s *Server) writeError(w http.ResponseWriter, statusCode int, code, message string) {
	s.writeJSON(w, statusCode, APIError{
		Code:    code,
		Message: message,
	})
}
