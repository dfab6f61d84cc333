package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
	"github.com/dmitrymomot/recyclebin/pkg/logger"
)

// maxRenameAttempts bounds suffix generation under the rename policy.
const maxRenameAttempts = 16

// Manager moves entries between the active and recycle stores.
// All mutations hold the write lock while they change a store (uploads only
// while publishing staged content); readers that need a consistent view of
// both stores hold RLocker.
type Manager struct {
	mu          sync.RWMutex
	active      blobstore.Store
	recycle     blobstore.Store
	policy      CollisionPolicy
	concurrency int
	suffix      func() string
	logger      *slog.Logger
}

// New creates a Manager over two distinct stores.
func New(active, recycle blobstore.Store, opts ...Option) (*Manager, error) {
	if active == nil || recycle == nil || active == recycle {
		return nil, ErrMissingStore
	}

	m := &Manager{
		active:      active,
		recycle:     recycle,
		policy:      Overwrite,
		concurrency: DefaultPurgeConcurrency,
		suffix:      randomSuffix,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, err := ParsePolicy(string(m.policy)); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) Active() blobstore.Store  { return m.active }
func (m *Manager) Recycle() blobstore.Store { return m.recycle }
func (m *Manager) Policy() CollisionPolicy  { return m.policy }

// Store resolves a namespace to its store.
func (m *Manager) Store(ns blobstore.Namespace) (blobstore.Store, error) {
	switch ns {
	case blobstore.Active:
		return m.active, nil
	case blobstore.Recycle:
		return m.recycle, nil
	default:
		return nil, fmt.Errorf("%w: %q", blobstore.ErrUnknownNamespace, ns)
	}
}

// RLocker returns a read lock excluding uploads, moves and purges while held.
func (m *Manager) RLocker() sync.Locker {
	return m.mu.RLocker()
}

// Upload stores r in the active store under the sanitised form of name,
// replacing any entry with the same name. Returns the stored name and size.
func (m *Manager) Upload(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	name = blobstore.SanitizeName(name)

	// The body is consumed before locking; only publishing excludes readers.
	staged, err := m.active.Stage(ctx, name, r)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = staged.Discard() }()
	n := staged.Size()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := staged.Commit(ctx); err != nil {
		return "", 0, err
	}
	m.logger.InfoContext(ctx, "entry uploaded",
		logger.Store(string(m.active.Namespace())),
		logger.Entry(name),
		logger.Bytes(n),
	)
	return name, n, nil
}

// List returns the entry names of a store under the read lock.
func (m *Manager) List(ctx context.Context, ns blobstore.Namespace) ([]string, error) {
	store, err := m.Store(ns)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return blobstore.Names(entries), nil
}

// Open returns the content of a file entry.
func (m *Manager) Open(ctx context.Context, ns blobstore.Namespace, name string) (io.ReadCloser, error) {
	store, err := m.Store(ns)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return store.Get(ctx, name)
}

// SoftDelete moves name from the active store to the recycle store.
// Returns the name the entry is stored under in recycle, which differs from
// name only under the rename policy. On failure the entry stays in active.
func (m *Manager) SoftDelete(ctx context.Context, name string) (string, error) {
	return m.transfer(ctx, m.active, m.recycle, name)
}

// Restore moves name from the recycle store back to the active store.
func (m *Manager) Restore(ctx context.Context, name string) (string, error) {
	return m.transfer(ctx, m.recycle, m.active, name)
}

// Purge removes every entry of the recycle store. Removals run concurrently.
// If any removal fails the returned error is a *PurgeError naming the entries
// that remain. Returns the number of removed entries.
func (m *Manager) Purge(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.recycle.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	// Once started a purge runs to completion.
	ctx = context.WithoutCancel(ctx)

	var (
		mu     sync.Mutex
		failed []string
		errs   []error
	)
	p := pool.New().WithMaxGoroutines(m.concurrency)
	for _, e := range entries {
		p.Go(func() {
			if err := m.recycle.Remove(ctx, e.Name); err != nil {
				m.logger.WarnContext(ctx, "failed to purge entry",
					logger.Store(string(m.recycle.Namespace())),
					logger.Entry(e.Name),
					logger.Error(err),
				)
				mu.Lock()
				failed = append(failed, e.Name)
				errs = append(errs, err)
				mu.Unlock()
			}
		})
	}
	p.Wait()

	removed := len(entries) - len(failed)
	if len(failed) > 0 {
		sort.Strings(failed)
		return removed, &PurgeError{Failed: failed, Err: errors.Join(errs...)}
	}

	m.logger.InfoContext(ctx, "recycle store purged",
		logger.Store(string(m.recycle.Namespace())),
		slog.Int("removed", removed),
	)
	return removed, nil
}

func (m *Manager) transfer(ctx context.Context, src, dst blobstore.Store, name string) (string, error) {
	if err := blobstore.ValidateName(name); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ok, err := src.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", blobstore.ErrNotFound, name, src.Namespace())
	}

	target, err := m.target(ctx, dst, name)
	if err != nil {
		return "", err
	}

	ctx = context.WithoutCancel(ctx)

	err = src.Move(ctx, name, dst, target)
	if errors.Is(err, blobstore.ErrCrossStoreMove) {
		err = m.copyMove(ctx, src, dst, name, target)
	}
	if err != nil {
		return "", err
	}

	m.logger.InfoContext(ctx, "entry moved",
		slog.String("from", string(src.Namespace())),
		slog.String("to", string(dst.Namespace())),
		logger.Entry(name),
		slog.String("stored_as", target),
	)
	return target, nil
}

// target picks the destination name for a move according to the collision policy.
func (m *Manager) target(ctx context.Context, dst blobstore.Store, name string) (string, error) {
	taken, err := dst.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if !taken {
		return name, nil
	}

	switch m.policy {
	case Reject:
		return "", fmt.Errorf("%w: %s in %s", ErrConflict, name, dst.Namespace())
	case Rename:
		for range maxRenameAttempts {
			candidate := withSuffix(name, m.suffix())
			taken, err := dst.Exists(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !taken {
				m.logger.InfoContext(ctx, "name collision, entry renamed",
					logger.Store(string(dst.Namespace())),
					logger.Entry(name),
					slog.String("stored_as", candidate),
				)
				return candidate, nil
			}
		}
		return "", fmt.Errorf("%w: no free name for %s in %s", ErrConflict, name, dst.Namespace())
	default:
		m.logger.InfoContext(ctx, "name collision, overwriting entry",
			logger.Store(string(dst.Namespace())),
			logger.Entry(name),
		)
		return name, nil
	}
}

// copyMove relocates a file entry between stores of different backends.
// The source is removed only after the copy is complete; if that removal
// fails the copy is dropped so the entry remains only in src.
func (m *Manager) copyMove(ctx context.Context, src, dst blobstore.Store, name, target string) error {
	rc, err := src.Get(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := dst.Put(ctx, target, rc); err != nil {
		return err
	}

	if err := src.Remove(ctx, name); err != nil {
		if rerr := dst.Remove(ctx, target); rerr != nil {
			m.logger.ErrorContext(ctx, "failed to roll back copied entry",
				logger.Store(string(dst.Namespace())),
				logger.Entry(target),
				logger.Error(rerr),
			)
		}
		return err
	}
	return nil
}

// withSuffix inserts suffix between the stem and the extension of name.
// Leading dots are part of the stem, so ".env" becomes ".env-<suffix>".
func withSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" || strings.Trim(stem, ".") == "" {
		stem, ext = name, ""
	}
	return stem + "-" + suffix + ext
}
