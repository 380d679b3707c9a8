package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetrip/safetrip/internal/api/middleware"
	"github.com/safetrip/safetrip/internal/api/models"
	"github.com/safetrip/safetrip/internal/api/response"
)

// requestWithContext returns a request that has been through RequestID.
func requestWithContext(t *testing.T, method, path string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)

	var processedReq *http.Request
	middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		processedReq = r
	})).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, processedReq)
	return processedReq, httptest.NewRecorder()
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestJSON_IncludesRequestID(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodGet, "/test")

	response.JSON(rec, req, http.StatusOK, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("X-Request-Id"), "req_")
	assert.JSONEq(t, `{"message":"hello"}`, rec.Body.String())
}

func TestJSON_WithoutRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Request-Id"))
	assert.Empty(t, rec.Body.String())
}

func TestOK_WrapsInEnvelope(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodPost, "/api/location/weather")

	response.OK(rec, req, nil)

	assert.JSONEq(t, `{"success":true,"data":null}`, rec.Body.String())
}

func TestCreated_SetsLocation(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodPost, "/api/travelers")

	response.Created(rec, req, "/api/travelers?email=a%40b.io", map[string]string{"id": "trv_1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/travelers?email=a%40b.io", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestBadRequest_IncludesTraceIDAndEnvelope(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodPost, "/api/location/gps-context")

	response.BadRequest(rec, req, "Latitude and longitude are required", []models.FieldError{
		{Field: "latitude", Message: "is required", Code: "REQUIRED"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, rec.Header().Get("X-Request-Id"), p.TraceID)
	assert.Equal(t, "/api/location/gps-context", p.Instance)
	assert.False(t, p.Success)
	assert.Equal(t, "Latitude and longitude are required", p.Error)
	require.Len(t, p.Errors, 1)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, *http.Request)
		status int
		typ    string
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, "traveler not found") },
			http.StatusNotFound, models.ProblemTypeNotFound},
		{"conflict", func(w http.ResponseWriter, r *http.Request) { response.Conflict(w, r, "email already registered") },
			http.StatusConflict, models.ProblemTypeConflict},
		{"internal", func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, "boom") },
			http.StatusInternalServerError, models.ProblemTypeInternal},
		{"unavailable", func(w http.ResponseWriter, r *http.Request) {
			response.ServiceUnavailable(w, r, "database unreachable")
		},
			http.StatusServiceUnavailable, models.ProblemTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := requestWithContext(t, http.MethodGet, "/api/x")
			tt.write(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, tt.status, p.Status)
			assert.NotEmpty(t, p.Error)
		})
	}
}

func TestUpstream_CarriesCause(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodGet, "/api/location")

	response.Upstream(rec, req, "Failed to fetch location data", errors.New("failed to fetch location data"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, models.ProblemTypeUpstream, p.Type)
	assert.Equal(t, "Failed to fetch location data", p.Error)
	assert.Equal(t, "failed to fetch location data", p.Message)
}
