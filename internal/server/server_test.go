package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/mocks"
	"github.com/foodgram/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:         "127.0.0.1",
		ServerPort:         "0",
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		RecipeCreateLimit:  5,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.NewSQLiteDB(t)

	srv := New(testConfig(), db, nil, mocks.NewImageStore())
	require.NotNil(t, srv)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/tags", http.StatusOK},
		{http.MethodGet, "/api/recipes", http.StatusOK},
		{http.MethodGet, "/api/users/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/recipes", http.StatusUnauthorized},
		{http.MethodPatch, "/api/tags", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/nothing-here", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestNewSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(testConfig(), testhelpers.NewSQLiteDB(t), nil, mocks.NewImageStore())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestStartStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(testConfig(), testhelpers.NewSQLiteDB(t), nil, mocks.NewImageStore())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartReportsListenError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	cfg := testConfig()
	_, cfg.ServerPort, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	srv := New(cfg, testhelpers.NewSQLiteDB(t), nil, mocks.NewImageStore())
	err = srv.Start(context.Background())
	assert.Error(t, err)
}
