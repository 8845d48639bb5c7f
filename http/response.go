package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gradlemirror/gradlemirror"
)

// Error bodies are fixed plain-text literals; clients get nothing richer
// than the status code explains.
const (
	notFoundBody         = "Not Found"
	badRequestBody       = "Bad Request"
	methodNotAllowedBody = "Method Not Allowed"
	internalErrorBody    = "Internal Server Error"
)

func writeNotFound(w http.ResponseWriter) {
	writePlain(w, http.StatusNotFound, notFoundBody)
}

func writeBadRequest(w http.ResponseWriter) {
	writePlain(w, http.StatusBadRequest, badRequestBody)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", "GET, HEAD")
	writePlain(w, http.StatusMethodNotAllowed, methodNotAllowedBody)
}

// handleError terminates a request on a service or store failure. Misses
// become the literal 404; everything else is logged and surfaces as a
// generic 500 with no retry and no fallback.
func handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, gradlemirror.ErrNotFound) {
		writeNotFound(w)
		return
	}

	slog.Error("request failed", "error", err)
	writePlain(w, http.StatusInternalServerError, internalErrorBody)
}

func writePlain(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}
