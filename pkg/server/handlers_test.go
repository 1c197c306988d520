package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/fhirquery/pkg/config"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer("localhost", "8080", cfg, "", logger, []byte("openapi: 3.0.3\n"))
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestValidateHandler(t *testing.T) {
	s := newTestServer(t, nil)

	rr := postJSON(t, s, "/validate", ValidateRequest{Query: "/Patient?name=Jan"})
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "/Patient?name=Jan", resp.Query)
	assert.True(t, resp.Result.Valid)
	require.NotNil(t, resp.Result.Parsed)
	assert.Equal(t, "Patient", resp.Result.Parsed.ResourceType)
}

func TestValidateHandler_InvalidQueryStillOK(t *testing.T) {
	s := newTestServer(t, nil)

	// An invalid query is a successful validation call; the outcome is data.
	rr := postJSON(t, s, "/validate", ValidateRequest{Query: "/Patient?name:missing=yes"})
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Result.Valid)
	assert.Len(t, resp.Result.Errors, 1)
}

func TestValidateHandler_BadBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
	assert.Equal(t, ErrCodeInvalidRequest, apiErr.Code)
}

func TestValidateHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/validate", nil)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestValidateBatchHandler(t *testing.T) {
	s := newTestServer(t, nil)

	rr := postJSON(t, s, "/validate/batch", BatchValidateRequest{
		Queries: []string{"/Patient?name=Jan", "/Patient?_count=abc"},
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp BatchValidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Result.Valid)
	assert.False(t, resp.Results[1].Result.Valid)
	assert.Equal(t, 2, resp.Meta.QueryCount)
}

func TestValidateBatchHandler_Empty(t *testing.T) {
	s := newTestServer(t, nil)

	rr := postJSON(t, s, "/validate/batch", BatchValidateRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOpenapiHandler(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "openapi")
}

func TestServerUsesConfigValidator(t *testing.T) {
	cfg := &config.Config{
		Validator: config.ValidatorConfig{CustomResourceTypes: []string{"Widget"}},
	}
	s := newTestServer(t, cfg)

	rr := postJSON(t, s, "/validate", ValidateRequest{Query: "/Widget?name=x"})
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Result.Valid)
	assert.Empty(t, resp.Result.Warnings)
}

func TestReloadConfigSwapsValidator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("servers: {}\n"), 0600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewServer("localhost", "0", cfg, path, logger, nil)

	rr := postJSON(t, s, "/validate", ValidateRequest{Query: "/Widget"})
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Result.Warnings, 1)

	updated := "validator:\n  customResourceTypes: [Widget]\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0600))
	require.NoError(t, s.ReloadConfig(t.Context()))

	rr = postJSON(t, s, "/validate", ValidateRequest{Query: "/Widget"})
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Result.Warnings)
}
