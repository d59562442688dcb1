package entry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func Test_Middleware(t *testing.T) {
	t.Run("request ID is generated and exposed to handlers", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		var seenRequestId string
		var seenLogger *slog.Logger
		h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenRequestId = RequestId(r.Context())
			seenLogger = Log(r)
			w.WriteHeader(http.StatusCreated)
		}))

		res := httptest.NewRecorder()
		h.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/pay", nil))

		assert.Equal(t, http.StatusCreated, res.Code)
		_, err := uuid.Parse(seenRequestId)
		assert.NoError(t, err)
		assert.Equal(t, seenRequestId, res.Header().Get(HeaderRequestId))
		assert.NotSame(t, slog.Default(), seenLogger)

		lines := decodeLogLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "Request finished", lines[0]["msg"])
		assert.Equal(t, "INFO", lines[0]["level"])
		assert.Equal(t, float64(http.StatusCreated), lines[0]["status"])
		assert.Equal(t, "/pay", lines[0]["path"])
		assert.Equal(t, seenRequestId, lines[0]["requestId"])
	})

	t.Run("existing request ID is carried through", func(t *testing.T) {
		logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
		h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(HeaderRequestId, "abc-123")
		res := httptest.NewRecorder()
		h.ServeHTTP(res, req)
		assert.Equal(t, "abc-123", res.Header().Get(HeaderRequestId))
	})

	t.Run("server errors are logged at error level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		lines := decodeLogLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "ERROR", lines[0]["level"])
	})
}

func Test_Log_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Same(t, slog.Default(), Log(req))
	assert.Empty(t, RequestId(req.Context()))
}
