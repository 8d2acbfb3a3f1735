package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

func bufferedLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "bad id\twith spaces")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.NotEqual(t, "bad id\twith spaces", rec.Header().Get(requestIDHeader))
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRecovererKeepsPartialResponse(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestRecovererReraisesAbort(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRecovererReturnsInternalEnvelope(t *testing.T) {
	var buf bytes.Buffer
	handler := Recoverer(bufferedLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INTERNAL_ERROR", body["error"]["code"])
	require.Contains(t, buf.String(), "panic.recovered")
}

func TestLoggingRecordsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logg := bufferedLogger(&buf)
	handler := RequestID(logg)(Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/register", nil)
	req.Header.Set(requestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var complete map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &complete))
	require.Equal(t, "request.complete", complete["message"])
	require.Equal(t, float64(http.StatusCreated), complete["status"])
	require.Equal(t, "req-1", complete["request_id"])
	require.Equal(t, "/api/v1/customers/register", complete["path"])
}
