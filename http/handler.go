package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/metrics"
)

// Service is the store-facing surface the handler consumes. MirrorService
// implements it; tests substitute mocks.
type Service interface {
	Resolve(ctx context.Context, path string) (gradlemirror.Route, error)
	Open(ctx context.Context, key string) (*gradlemirror.Object, error)
	Stat(ctx context.Context, key string) (gradlemirror.ObjectInfo, error)
	Browse(ctx context.Context, prefix string) (gradlemirror.DirectoryListing, error)
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxAge         int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	CORS CORSConfig
}

// Handler serves the mirror's read-only HTTP surface: GET and HEAD over the
// whole path space, everything else a 405.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns the configured http.Handler. Security headers, request
// logging and panic recovery wrap every response, including 404s and 405s
// produced by the router itself.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(SecurityHeaders)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.config.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
			MaxAge:         h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMethodNotAllowed(w)
	})

	r.Get("/", h.handleRequest)
	r.Head("/", h.handleRequest)
	r.Get("/*", h.handleRequest)
	r.Head("/*", h.handleRequest)

	return r
}

// handleRequest runs the full pipeline for one GET or HEAD request:
// sanitize, classify, then dispatch on the route outcome.
func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	path, err := gradlemirror.SanitizePath(rawRequestPath(r))
	if err != nil {
		writeBadRequest(w)
		return
	}

	route, err := h.service.Resolve(r.Context(), path)
	if err != nil {
		handleError(w, err)
		return
	}

	metrics.RecordRouteOutcome(string(route.Kind))

	switch route.Kind {
	case gradlemirror.RouteShell, gradlemirror.RouteAsset, gradlemirror.RouteFile:
		h.serveObject(w, r, route)
	case gradlemirror.RouteRedirect:
		h.serveRedirect(w, route)
	case gradlemirror.RouteListing:
		h.serveListing(w, r, route)
	default:
		handleError(w, fmt.Errorf("unhandled route kind %q: %w", route.Kind, gradlemirror.ErrInternal))
	}
}

// serveObject answers shell, asset and file routes. HEAD uses a
// metadata-only lookup so the object body is never opened; a miss is a
// terminal 404 for every branch, asset routes included.
func (h *Handler) serveObject(w http.ResponseWriter, r *http.Request, route gradlemirror.Route) {
	contentType := gradlemirror.ContentTypeFor(route.Key)

	if r.Method == http.MethodHead {
		info, err := h.service.Stat(r.Context(), route.Key)
		if err != nil {
			handleError(w, err)
			return
		}

		writeObjectHeaders(w, route.Kind, contentType, info)
		w.WriteHeader(http.StatusOK)
		return
	}

	obj, err := h.service.Open(r.Context(), route.Key)
	if err != nil {
		handleError(w, err)
		return
	}
	defer func() { _ = obj.Body.Close() }()

	writeObjectHeaders(w, route.Kind, contentType, obj.ObjectInfo)
	w.WriteHeader(http.StatusOK)

	if _, copyErr := io.Copy(w, obj.Body); copyErr != nil {
		// Headers are gone; nothing to send the client but a log line
		slog.Error("stream object body", "key", route.Key, "error", copyErr)
	}
}

func writeObjectHeaders(w http.ResponseWriter, kind gradlemirror.RouteKind, contentType string, info gradlemirror.ObjectInfo) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))

	if info.ETag != "" {
		w.Header().Set("ETag", `"`+info.ETag+`"`)
	}
	if cc := gradlemirror.CacheControlFor(kind); cc != "" {
		w.Header().Set("Cache-Control", cc)
	}
	if !info.LastModified.IsZero() {
		w.Header().Set("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
	}
	if gradlemirror.IsHTML(contentType) {
		w.Header().Set("Content-Security-Policy", ContentSecurityPolicy)
	}
}

// serveRedirect issues the canonical-directory redirect with an empty body.
func (h *Handler) serveRedirect(w http.ResponseWriter, route gradlemirror.Route) {
	// Re-encode: the location was derived from the decoded path
	location := (&url.URL{Path: route.Location}).EscapedPath()

	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusMovedPermanently)
}

// serveListing renders the directory view for a prefix. The page is built
// fully before any byte is written so HEAD responses carry an accurate
// Content-Length without a body.
func (h *Handler) serveListing(w http.ResponseWriter, r *http.Request, route gradlemirror.Route) {
	listing, err := h.service.Browse(r.Context(), route.Prefix)
	if err != nil {
		handleError(w, err)
		return
	}

	page, err := renderListing(listing)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(page)))
	w.Header().Set("Cache-Control", gradlemirror.CacheControlFor(gradlemirror.RouteListing))
	w.Header().Set("Content-Security-Policy", ContentSecurityPolicy)
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	if _, writeErr := w.Write(page); writeErr != nil {
		slog.Error("write listing body", "prefix", route.Prefix, "error", writeErr)
	}
}

// rawRequestPath returns the still percent-encoded path portion of the
// request line. Sanitization decodes it exactly once; using the pre-decoded
// r.URL.Path would hide malformed escapes the pipeline must reject itself.
func rawRequestPath(r *http.Request) string {
	raw := r.RequestURI
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}

	if raw == "" || raw[0] != '/' {
		raw = r.URL.EscapedPath()
	}

	return raw
}
