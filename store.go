package gradlemirror

import (
	"context"
	"io"
)

// Store is the read capability the request pipeline consumes. Implementations
// wrap an object store whose keys are flat strings; keys never begin with "/".
//
// All methods accept a context for cancellation and timeout control and must
// translate their backend's not-found shape into ErrNotFound so callers can
// match with errors.Is.
type Store interface {
	// Get retrieves an object and opens its body for reading.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - key: The object key to retrieve
	//
	// Returns:
	//   - *Object: Metadata plus an open body stream; the caller must close Body
	//   - error: ErrNotFound if the key doesn't exist, or other backend errors
	Get(ctx context.Context, key string) (*Object, error)

	// Head retrieves an object's metadata without transferring its body.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - key: The object key to look up
	//
	// Returns:
	//   - ObjectInfo: Size, ETag and timestamps for the key
	//   - error: ErrNotFound if the key doesn't exist, or other backend errors
	Head(ctx context.Context, key string) (ObjectInfo, error)

	// List returns one level of the keyspace below q.Prefix. With q.Delimiter
	// set, keys containing the delimiter past the prefix are grouped into
	// CommonPrefixes and only direct children appear as Objects.
	//
	// Listing a prefix with no children is not an error; it returns an empty
	// result.
	List(ctx context.Context, q ListQuery) (ListResult, error)
}

// WriteStore extends Store with the mutations used by the mirror, deploy and
// cleanup tooling. The HTTP handler only ever holds a Store; nothing on the
// serving path can reach these methods.
type WriteStore interface {
	Store

	// Put stores an object under key, overwriting any existing object.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - key: The destination key
	//   - body: Reader providing the object bytes
	//   - opts: Content type and, when known, content length and cache policy
	//
	// Returns:
	//   - ObjectInfo: The stored object's metadata including its new ETag
	//   - error: Any backend or I/O error
	Put(ctx context.Context, key string, body io.Reader, opts PutOptions) (ObjectInfo, error)

	// Delete removes an object. Deleting an absent key returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// ListAll returns every object whose key begins with prefix, paginating
	// internally with no delimiter grouping. An empty prefix walks the whole
	// bucket; use with care on large buckets.
	ListAll(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
