package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "unknown path", method: http.MethodGet, path: "/api/unknown"},
		{name: "outside api", method: http.MethodGet, path: "/"},
		{name: "unsupported method", method: http.MethodPatch, path: "/api/version"},
		{name: "get on post-only route", method: http.MethodGet, path: "/api/auth/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(tt.method, tt.path, "", false)

			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, "route not found", messageOf(t, rr))
		})
	}
}

func TestInit_ProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodPost, "/api/auth/resend-verification"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/profile"},
		{http.MethodPut, "/api/users/profile"},
		{http.MethodPut, "/api/users/2/role"},
		{http.MethodDelete, "/api/users/2"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks/stats"},
		{http.MethodGet, "/api/tasks/1"},
		{http.MethodPut, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/1"},
		{http.MethodPost, "/api/tasks/1/assign"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rr := env.do(route.method, route.path, "", false)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestInit_SetsTraceIDHeader(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/api/unknown", "", false)

	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
}
