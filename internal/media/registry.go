package media

import "context"

// Registry is a read-only keyed lookup of media entries, owned by the
// surrounding application. Implementations must be safe for concurrent
// readers; no core operation mutates an entry.
type Registry interface {
	// Lookup returns the entry for the bare filename, or ErrEntryNotFound.
	Lookup(ctx context.Context, filename string) (Entry, error)
}
