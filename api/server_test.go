package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"reservation-analysis/core/engine"
	"reservation-analysis/core/reconcile"
	"reservation-analysis/core/report"
	"reservation-analysis/core/types"
	"reservation-analysis/internal/errors"
)

type analyzerFunc func(ctx context.Context, subscriptionID string) (*engine.Analysis, error)

func (f analyzerFunc) ComputeAnalysis(ctx context.Context, subscriptionID string) (*engine.Analysis, error) {
	return f(ctx, subscriptionID)
}

func newServer(t *testing.T, fn analyzerFunc) *Server {
	return NewServer(fn, Options{
		Version:               "test",
		DefaultSubscriptionID: "default-sub",
		RequestTimeout:        time.Minute,
	}, zaptest.NewLogger(t))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestAnalysisEndpoint(t *testing.T) {
	var requested string
	s := newServer(t, func(_ context.Context, sub string) (*engine.Analysis, error) {
		requested = sub
		r := report.Assemble([]types.AnalysisRow{
			reconcile.Row(types.GroupKey{SizeClass: "Standard_D2s_v3", Location: "eastus"}, 5, 3),
		}, report.Options{Sort: true})
		return &engine.Analysis{ID: "a-1", SubscriptionID: sub, Rows: r.Rows, Summary: r.Summary}, nil
	})

	rec := get(t, s, "/api/reservation-analysis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "default-sub", requested)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		SubscriptionID string                   `json:"subscriptionId"`
		Rows           []map[string]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "default-sub", body.SubscriptionID)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, map[string]interface{}{
		"vmSize":   "Standard_D2s_v3",
		"location": "eastus",
		"actual":   float64(5),
		"reserved": float64(3),
		"gap":      float64(2),
		"coverage": float64(60),
		"status":   "Under-reserved",
	}, body.Rows[0])

	get(t, s, "/api/reservation-analysis?subscriptionId=other-sub")
	assert.Equal(t, "other-sub", requested)
}

func TestAnalysisErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    errors.Type
		source errors.Source
	}{
		{
			name:   "config",
			err:    errors.Config("subscription ID is required"),
			status: http.StatusInternalServerError,
			typ:    errors.TypeConfig,
		},
		{
			name:   "source unavailable",
			err:    errors.SourceUnavailable(errors.SourceCommitments, context.DeadlineExceeded),
			status: http.StatusBadGateway,
			typ:    errors.TypeSourceUnavailable,
			source: errors.SourceCommitments,
		},
		{
			name:   "untyped",
			err:    assert.AnError,
			status: http.StatusInternalServerError,
			typ:    errors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, func(context.Context, string) (*engine.Analysis, error) { return nil, tt.err })

			rec := get(t, s, "/api/reservation-analysis")
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Error processing request.", body.Message)
			assert.NotEmpty(t, body.Details)
			assert.Equal(t, tt.typ, body.Type)
			assert.Equal(t, tt.source, body.Source)
		})
	}
}

func TestHealthAndVersion(t *testing.T) {
	s := newServer(t, nil)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)

	rec = get(t, s, "/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
}

func TestRequestIDHeaderIsEchoed(t *testing.T) {
	s := newServer(t, func(_ context.Context, sub string) (*engine.Analysis, error) {
		return &engine.Analysis{SubscriptionID: sub, Rows: []types.AnalysisRow{}}, nil
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reservation-analysis", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	s.ServeHTTP(rec, req)

	var body AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "req-42", body.RequestID)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newServer(t, nil), "/api/estimate")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
