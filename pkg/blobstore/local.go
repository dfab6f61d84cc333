package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// DefaultMaxDepth bounds directory descent when sizing nested entries.
const DefaultMaxDepth = 64

// Local implements Store on a single filesystem directory.
// Every entry is a direct child of root; nested directories are allowed as entries.
type Local struct {
	ns       Namespace
	root     string // absolute path of the namespace directory
	staging  string // sibling directory for in-flight writes, same volume as root
	maxSize  int64  // 0 means unlimited
	maxDepth int
	logger   *slog.Logger
}

// LocalOption configures Local.
type LocalOption func(*Local)

// WithLocalLogger sets the logger used for skipped descendants during size walks.
func WithLocalLogger(l *slog.Logger) LocalOption {
	return func(s *Local) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSize limits the number of bytes a single Put may write.
func WithMaxSize(n int64) LocalOption {
	return func(s *Local) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// WithMaxDepth limits how deep SizeOf descends into nested directories.
func WithMaxDepth(depth int) LocalOption {
	return func(s *Local) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// NewLocal creates a filesystem store rooted at root.
// The directory and its staging sibling are created if absent.
func NewLocal(ns Namespace, root string, opts ...LocalOption) (*Local, error) {
	if !ns.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: root directory is required", ErrInvalidConfig)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve root: %v", ErrIO, err)
	}
	staging := filepath.Join(filepath.Dir(abs), ".staging-"+filepath.Base(abs))

	for _, dir := range []string{abs, staging} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", ErrIO, dir, err)
		}
	}

	s := &Local{
		ns:       ns,
		root:     abs,
		staging:  staging,
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Namespace implements Store.
func (s *Local) Namespace() Namespace { return s.ns }

// Root returns the absolute directory backing the store.
func (s *Local) Root() string { return s.root }

// Put streams r into a staging file and renames it into place, so readers never
// observe a partially written entry. An existing entry with the same name is replaced.
func (s *Local) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	staged, err := s.Stage(ctx, name, r)
	if err != nil {
		return 0, err
	}
	defer func() { _ = staged.Discard() }()

	if err := staged.Commit(ctx); err != nil {
		return 0, err
	}
	return staged.Size(), nil
}

// Stage streams r into a file in the staging directory. The entry becomes
// visible only when the returned Staged is committed.
func (s *Local) Stage(ctx context.Context, name string, r io.Reader) (Staged, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrIO)
	}
	dst, err := s.path(name)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.staging, "put-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %v", ErrIO, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	written, err := s.copy(ctx, tmp, r)
	if err != nil {
		cleanup()
		return nil, err
	}
	if err := tmp.Chmod(0644); err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: chmod: %v", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: close temp file: %v", ErrIO, err)
	}

	return &localStaged{name: name, tmp: tmpPath, dst: dst, size: written}, nil
}

// localStaged is a complete staging file waiting to be renamed into the store.
type localStaged struct {
	name string
	tmp  string
	dst  string
	size int64
	done bool
}

func (st *localStaged) Size() int64 { return st.size }

// Commit renames the staging file over the entry.
func (st *localStaged) Commit(context.Context) error {
	if st.done {
		return ErrStagedClosed
	}
	st.done = true

	// Rename cannot replace a directory, last write wins regardless of entry kind.
	if info, err := os.Lstat(st.dst); err == nil && info.IsDir() {
		if err := os.RemoveAll(st.dst); err != nil {
			_ = os.Remove(st.tmp)
			return fmt.Errorf("%w: replace directory %s: %v", ErrIO, st.name, err)
		}
	}

	if err := os.Rename(st.tmp, st.dst); err != nil {
		_ = os.Remove(st.tmp)
		return fmt.Errorf("%w: rename into place: %v", ErrIO, err)
	}
	return nil
}

// Discard removes the staging file unless it was committed.
func (st *localStaged) Discard() error {
	if st.done {
		return nil
	}
	st.done = true
	if err := os.Remove(st.tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: discard staged %s: %v", ErrIO, st.name, err)
	}
	return nil
}

// copy moves bytes in 32KB chunks, checking for cancellation between chunks
// and enforcing the size limit on actual bytes rather than declared length.
func (s *Local) copy(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	written := int64(0)
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if s.maxSize > 0 && written+int64(n) > s.maxSize {
				return written, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxSize)
			}
			nw, writeErr := dst.Write(buf[:n])
			if writeErr != nil {
				return written, fmt.Errorf("%w: write: %v", ErrIO, writeErr)
			}
			written += int64(nw)
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("%w: read: %v", ErrIO, readErr)
		}
	}
}

// Get opens a file entry for reading.
func (s *Local) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}

	info, err := s.lstat(p, name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, name)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, name, err)
	}
	return f, nil
}

// Exists reports whether the entry is present. Invalid names simply do not exist.
func (s *Local) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, err := s.path(name)
	if err != nil {
		return false, nil
	}

	_, err = os.Lstat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("%w: stat %s: %v", ErrIO, name, err)
	}
}

// List returns the direct children of the store directory.
func (s *Local) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, s.ns, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, Entry{Name: de.Name(), IsDir: de.IsDir()})
	}
	return entries, nil
}

// Remove deletes the entry permanently. Directory entries are removed recursively.
func (s *Local) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if _, err := s.lstat(p, name); err != nil {
		return err
	}

	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("%w: remove %s: %v", ErrIO, name, err)
	}
	return nil
}

// SizeOf returns the byte size of a file entry, or the total size of all regular
// files below a directory entry. See walk for the traversal rules.
func (s *Local) SizeOf(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p, err := s.path(name)
	if err != nil {
		return 0, err
	}

	info, err := s.lstat(p, name)
	if err != nil {
		return 0, err
	}

	switch {
	case info.Mode().IsRegular():
		return info.Size(), nil
	case info.IsDir():
		return s.walk(ctx, p, info)
	default:
		// symlinks, sockets and devices carry no stored bytes
		return 0, nil
	}
}

type walkItem struct {
	path  string
	depth int
}

// walk sums regular file sizes below dir using an explicit stack.
// Symlinks are never followed, a directory reached twice (bind mounts, hard-linked
// directories) is counted once, and descent stops at maxDepth.
// Unreadable descendants are logged and skipped.
func (s *Local) walk(ctx context.Context, dir string, info fs.FileInfo) (int64, error) {
	visited := make(map[fileKey]struct{})
	if k, ok := keyOf(info); ok {
		visited[k] = struct{}{}
	}

	var total int64
	stack := []walkItem{{path: dir, depth: 0}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := os.ReadDir(item.path)
		if err != nil {
			if item.path == dir {
				return 0, fmt.Errorf("%w: read %s: %v", ErrIO, filepath.Base(dir), err)
			}
			s.skip(ctx, item.path, err)
			continue
		}

		for _, child := range children {
			childPath := filepath.Join(item.path, child.Name())
			ci, err := os.Lstat(childPath)
			if err != nil {
				s.skip(ctx, childPath, err)
				continue
			}

			switch {
			case ci.Mode().IsRegular():
				total += ci.Size()
			case ci.IsDir():
				if item.depth+1 > s.maxDepth {
					s.skip(ctx, childPath, fmt.Errorf("depth limit %d reached", s.maxDepth))
					continue
				}
				if k, ok := keyOf(ci); ok {
					if _, seen := visited[k]; seen {
						continue
					}
					visited[k] = struct{}{}
				}
				stack = append(stack, walkItem{path: childPath, depth: item.depth + 1})
			}
		}
	}

	return total, nil
}

func (s *Local) skip(ctx context.Context, path string, err error) {
	rel, relErr := filepath.Rel(s.root, path)
	if relErr != nil {
		rel = path
	}
	s.logger.WarnContext(ctx, "skipping unreadable path during size walk",
		slog.String("store", string(s.ns)),
		slog.String("path", rel),
		slog.String("error", err.Error()),
	)
}

// Move renames the entry into another Local store. On the same volume this is a
// single rename(2), so the entry is never visible in both or neither store.
// A same-named target is replaced. Stores on different filesystems return
// ErrCrossStoreMove and leave both sides untouched.
func (s *Local) Move(ctx context.Context, name string, dst Store, dstName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, ok := dst.(*Local)
	if !ok {
		return ErrCrossStoreMove
	}

	src, err := s.path(name)
	if err != nil {
		return err
	}
	to, err := target.path(dstName)
	if err != nil {
		return err
	}

	srcInfo, err := s.lstat(src, name)
	if err != nil {
		return err
	}
	if !s.sameVolume(target) {
		return ErrCrossStoreMove
	}

	// rename(2) replaces files atomically but refuses non-empty directories and
	// mixed file/directory pairs, so such targets are cleared first.
	if ti, err := os.Lstat(to); err == nil && (ti.IsDir() || srcInfo.IsDir()) {
		if err := os.RemoveAll(to); err != nil {
			return fmt.Errorf("%w: replace %s in %s: %v", ErrIO, dstName, target.ns, err)
		}
	}

	if err := os.Rename(src, to); err != nil {
		// mount points sharing a device still refuse rename
		if errors.Is(err, syscall.EXDEV) {
			return ErrCrossStoreMove
		}
		return fmt.Errorf("%w: move %s to %s: %v", ErrIO, name, target.ns, err)
	}
	return nil
}

// sameVolume reports whether both store roots sit on one filesystem.
func (s *Local) sameVolume(other *Local) bool {
	a, err := os.Stat(s.root)
	if err != nil {
		return true
	}
	b, err := os.Stat(other.root)
	if err != nil {
		return true
	}
	return sameDevice(a, b)
}

// path validates name and joins it to root.
func (s *Local) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.root, name), nil
}

func (s *Local) lstat(p, name string) (fs.FileInfo, error) {
	info, err := os.Lstat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.ns)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, name, err)
	}
	return info, nil
}
