package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eximroyals/storefront/internal/config"
)

func testConfig(apiBase string) *config.Config {
	return &config.Config{
		Environment:         "development",
		LogLevel:            "error",
		HTTPPort:            0,
		APIBaseURL:          apiBase,
		MediaBaseURL:        "http://media.test",
		APITimeout:          time.Second,
		BreakerTimeout:      time.Second,
		BreakerFailureRatio: 0.5,
		BreakerMinRequests:  5,
		RequestTimeout:      5 * time.Second,
		SessionSecret:       "app-test-secret-0123456789",
		SessionTTL:          time.Hour,
		SessionStore:        "memory",
		FormRatePerMinute:   10,
		FormRateBurst:       5,
		OTELEnabled:         false,
		OTELSampleRate:      1.0,
	}
}

func TestAPIReachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	up := srv.URL + "/api"

	assert.NoError(t, apiReachable(up)(context.Background()))

	srv.Close()
	assert.Error(t, apiReachable(up)(context.Background()))
}

func TestNewApp_MemorySessions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := NewApp(testConfig("http://127.0.0.1:1/api"), logger)
	require.NoError(t, err)
	require.NotNil(t, a.httpServer.Handler)
	assert.Nil(t, a.rdb)

	rr := httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	assert.NoError(t, a.Shutdown())
}
