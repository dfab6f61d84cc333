package blobstore

import (
	"context"
	"io"
)

// Namespace identifies one of the two stores managed by the service.
type Namespace string

const (
	Active  Namespace = "active"
	Recycle Namespace = "recycle"
)

// Valid reports whether ns names a known store.
func (ns Namespace) Valid() bool {
	return ns == Active || ns == Recycle
}

// ParseNamespace converts a caller supplied store id into a Namespace.
// An empty string resolves to Active.
func ParseNamespace(s string) (Namespace, error) {
	if s == "" {
		return Active, nil
	}
	ns := Namespace(s)
	if !ns.Valid() {
		return "", ErrUnknownNamespace
	}
	return ns, nil
}

// Entry describes a top-level entry of a store.
type Entry struct {
	Name  string
	IsDir bool
}

// Store is a flat namespace of named entries backed by persistent storage.
// Implementations never cache listings or sizes: every call reads the backend.
type Store interface {
	// Namespace returns the store identity.
	Namespace() Namespace
	// Put writes content under name, replacing any existing entry.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)
	// Stage consumes r without making it visible. Callers publish it with Commit
	// and always call Discard, which is a no-op after a successful Commit.
	Stage(ctx context.Context, name string, r io.Reader) (Staged, error)
	// Get opens the content of a file entry.
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	// Exists reports whether an entry with the exact name is present.
	Exists(ctx context.Context, name string) (bool, error)
	// List returns the entries currently present, in backend enumeration order.
	List(ctx context.Context) ([]Entry, error)
	// Remove permanently deletes the entry and all of its descendants.
	Remove(ctx context.Context, name string) error
	// SizeOf returns the total byte size of the entry, descending into directories.
	SizeOf(ctx context.Context, name string) (int64, error)
	// Move relocates the entry to dst under dstName as a single backend operation.
	// Returns ErrCrossStoreMove when dst is not handled by the same backend.
	Move(ctx context.Context, name string, dst Store, dstName string) error
}

// Staged is content received for an entry but not yet published in its store.
// Reading the caller's stream happens in Stage, so Commit is bounded by the
// backend alone and can run under locks that readers wait on.
type Staged interface {
	// Size returns the number of bytes staged.
	Size() int64
	// Commit publishes the content under its name, replacing any existing entry.
	Commit(ctx context.Context) error
	// Discard releases staged content.
	Discard() error
}

// Names extracts entry names preserving order.
func Names(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}
