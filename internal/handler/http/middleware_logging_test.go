package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithLogging(t *testing.T, next http.HandlerFunc) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	l := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks?sort=priority", nil)
	req = req.WithContext(l.WithContext(req.Context()))
	rr := httptest.NewRecorder()

	(&Handler{}).withLogging(next).ServeHTTP(rr, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry, rr
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name       string
		next       http.HandlerFunc
		wantStatus float64
		wantSize   float64
		wantLevel  string
	}{
		{
			name: "created",
			next: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":1}`))
			},
			wantStatus: http.StatusCreated,
			wantSize:   8,
			wantLevel:  "info",
		},
		{
			name: "implicit ok",
			next: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			wantStatus: http.StatusOK,
			wantSize:   2,
			wantLevel:  "info",
		},
		{
			name:       "nothing written",
			next:       func(w http.ResponseWriter, r *http.Request) {},
			wantStatus: http.StatusOK,
			wantSize:   0,
			wantLevel:  "info",
		},
		{
			name: "server error",
			next: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
			wantSize:   0,
			wantLevel:  "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, _ := serveWithLogging(t, tt.next)

			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, tt.wantSize, entry["size"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, http.MethodPost, entry["method"])
			assert.Equal(t, "/api/tasks?sort=priority", entry["uri"])
			assert.Contains(t, entry, "duration")
		})
	}
}

func TestWithLogging_PassesResponseThrough(t *testing.T) {
	_, rr := serveWithLogging(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "1")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("body"))
	})

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-Custom"))
	assert.Equal(t, "body", rr.Body.String())
}
