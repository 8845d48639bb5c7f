// Package gradlemirror implements the core of a Gradle distribution mirror:
// a stateless request pipeline that maps URL paths onto an object store
// holding a marketing site at top-level keys and distribution archives under
// the gradle/ prefix.
//
// # Key Components
//
//   - SanitizePath: validates and decodes the raw request path
//   - ResolveRoute: classifies a sanitized path into one of five route outcomes
//   - MirrorService: store-facing operations consumed by the HTTP handler
//   - Store: read capability over the object store (get, head, prefix listing)
//   - WriteStore: superset used only by the deployment tooling, never by the server
//
// # Request Pipeline
//
// Every request runs the same pass: sanitize the raw path, classify it,
// perform at most the store lookups the outcome requires, and build the
// response. Nothing is cached and no state survives the request.
//
//	service, err := gradlemirror.NewMirrorService(store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	route, err := service.Resolve(ctx, "/gradle/8.5/")
//	// route.Kind == gradlemirror.RouteListing
//
// See the http package for the server surface, the s3store, filesystem and
// memstore packages for store backends, and the mirror package for the
// synchronization and deployment tooling.
package gradlemirror
