package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	mirrorhttp "github.com/gradlemirror/gradlemirror/http"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders_SetOnEveryResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wrapped := mirrorhttp.SecurityHeaders(handler)

	req := httptest.NewRequest("GET", "/anything", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}

func TestSecurityHeaders_SetBeforeHandlerRuns(t *testing.T) {
	// Error writers deeper in the chain must already see the headers
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		w.WriteHeader(http.StatusNotFound)
	})

	wrapped := mirrorhttp.SecurityHeaders(handler)

	req := httptest.NewRequest("GET", "/missing", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRequestLogger_PassesResponseThrough(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("made"))
	})

	wrapped := mirrorhttp.RequestLogger(handler)

	req := httptest.NewRequest("GET", "/anything", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "made", rec.Body.String())
}

func TestRequestLogger_ImplicitOK(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("no explicit status"))
	})

	wrapped := mirrorhttp.RequestLogger(handler)

	req := httptest.NewRequest("GET", "/anything", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no explicit status", rec.Body.String())
}
