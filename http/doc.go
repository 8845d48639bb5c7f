// Package http serves the mirror's public surface: a GET/HEAD-only handler
// that maps request paths onto the object store.
//
// # Features
//
//   - Path sanitization before any store access (400 on malformed or unsafe paths)
//   - Five-way route classification: shell, asset, file, directory redirect, listing
//   - Generated HTML directory listings with human-readable sizes
//   - Uniform security headers on every response, error responses included
//   - Per-branch Cache-Control and a static extension-to-MIME table
//   - Request logging and Prometheus metrics via middleware
//   - Optional CORS for cross-origin distribution downloads
//
// # Routing
//
// "/" and "/index.html" always serve the shell document. A dotted-extension
// path outside /gradle/ is a build asset and 404s hard when absent — there
// is no SPA fallback. An extensionless path is probed as a file and, on a
// miss, redirected to its directory form. Trailing-slash paths render
// listings. Everything else, notably archives under /gradle/, is served as
// a direct file lookup.
//
// # Usage
//
//	service, err := gradlemirror.NewMirrorService(store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	handler := http.NewHandler(&http.HandlerConfig{}, service)
//	http.ListenAndServe(":8347", handler.Router())
//
// The service parameter must implement the Service interface with Resolve,
// Open, Stat, and Browse methods.
package http
