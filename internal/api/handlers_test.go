package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", nil, "")
	requireStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	env := newTestEnv(t)
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/metrics", nil, "")
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestInvalidTokenRejectedOnPublicRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/tags", nil, "not-a-jwt")
	requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, "invalid_token", errorCode(t, w))
}

func TestMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	req := `{"email": `
	w := env.doRaw(t, http.MethodPost, "/api/auth/token/login", req)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "invalid_body", errorCode(t, w))
}
