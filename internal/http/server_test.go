package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/registry"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	reg, err := registry.New([]registry.Definition{
		{Name: "Payments Platform", Key: "payments", APIKey: "sk-secret", ProjectID: "p1", Description: "billing"},
		{Name: "Mobile App", Key: "mobile", APIKey: "sk-secret-2", ProjectID: "p2"},
	})
	require.NoError(t, err)

	srv, err := NewServer(reg, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(nil, zap.NewNop(), nil)
	assert.ErrorContains(t, err, "registry cannot be nil")

	reg, err := registry.New([]registry.Definition{
		{Name: "P", Key: "p", APIKey: "k", ProjectID: "id"},
	})
	require.NoError(t, err)
	_, err = NewServer(reg, nil, nil)
	assert.ErrorContains(t, err, "logger is required")
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Projects)
}

func TestHandleListProjects(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProjectListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "payments", resp.Projects[0].Key)
	assert.Equal(t, "billing", resp.Projects[0].Description)

	// credentials must never appear in any HTTP response
	assert.NotContains(t, rec.Body.String(), "sk-secret")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
