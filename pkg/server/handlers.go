package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bascanada/fhirquery/pkg/fhir/search"
)

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Query string `json:"query"`
}

// ValidateResponse pairs a query with its validation result.
type ValidateResponse struct {
	Query  string        `json:"query"`
	Result search.Result `json:"result"`
	Meta   QueryMetadata `json:"meta,omitempty"`
}

// BatchValidateRequest is the body of POST /validate/batch.
type BatchValidateRequest struct {
	Queries []string `json:"queries"`
}

// BatchValidateResponse carries one result per query, in request order.
type BatchValidateResponse struct {
	Results []ValidateResponse `json:"results"`
	Meta    QueryMetadata      `json:"meta,omitempty"`
}

// QueryMetadata describes how the validation ran.
type QueryMetadata struct {
	ValidationTime string `json:"validationTime,omitempty"`
	QueryCount     int    `json:"queryCount,omitempty"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) validateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST method is allowed")
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	startTime := time.Now()
	result := s.currentValidator().Validate(req.Query)

	s.writeJSON(w, http.StatusOK, ValidateResponse{
		Query:  req.Query,
		Result: result,
		Meta: QueryMetadata{
			ValidationTime: time.Since(startTime).String(),
			QueryCount:     1,
		},
	})
}

func (s *Server) validateBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST method is allowed")
		return
	}

	var req BatchValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	if len(req.Queries) == 0 {
		s.writeError(w, http.StatusBadRequest, ErrCodeValidationError, "queries must not be empty")
		return
	}

	startTime := time.Now()
	validator := s.currentValidator()

	results := make([]ValidateResponse, 0, len(req.Queries))
	for _, q := range req.Queries {
		results = append(results, ValidateResponse{
			Query:  q,
			Result: validator.Validate(q),
		})
	}

	s.writeJSON(w, http.StatusOK, BatchValidateResponse{
		Results: results,
		Meta: QueryMetadata{
			ValidationTime: time.Since(startTime).String(),
			QueryCount:     len(req.Queries),
		},
	})
}

func (s *Server) openapiHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET method is allowed")
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(s.openapiSpec); err != nil {
		s.logger.Error("failed to write openapi spec", "err", err)
	}
}
