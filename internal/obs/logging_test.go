package obs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-roti/internal/common"
)

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "warn")

	logger.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	logger.Warn().Msg("shown")
	require.Contains(t, buf.String(), `"message":"shown"`)
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	var buf bytes.Buffer
	mw := RequestLogger{Logger: newLogger(&buf, "json", "debug")}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(common.SessionHeader, "5b0f7c1e-6f7e-4e43-9c52-0d5a8a3c7e11")
		w.WriteHeader(http.StatusNotFound)
	}))

	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/unknown", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, float64(http.StatusNotFound), line["status"])
	require.Equal(t, "/api/v1/products/unknown", line["route"])
	require.Equal(t, "5b0f7c1e-6f7e-4e43-9c52-0d5a8a3c7e11", line["session_id"])
}
