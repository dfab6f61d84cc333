package blobstore_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
)

func newLocalPair(t *testing.T, opts ...blobstore.LocalOption) (*blobstore.Local, *blobstore.Local) {
	t.Helper()
	root := t.TempDir()

	active, err := blobstore.NewLocal(blobstore.Active, filepath.Join(root, "active"), opts...)
	require.NoError(t, err)
	recycle, err := blobstore.NewLocal(blobstore.Recycle, filepath.Join(root, "recycle"), opts...)
	require.NoError(t, err)

	return active, recycle
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func sortedNames(t *testing.T, s blobstore.Store) []string {
	t.Helper()
	entries, err := s.List(context.Background())
	require.NoError(t, err)
	names := blobstore.Names(entries)
	sort.Strings(names)
	return names
}

func TestNewLocal(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()
		root := filepath.Join(t.TempDir(), "nested", "active")

		store, err := blobstore.NewLocal(blobstore.Active, root)
		require.NoError(t, err)

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, blobstore.Active, store.Namespace())
		assert.True(t, filepath.IsAbs(store.Root()))
	})

	t.Run("empty root", func(t *testing.T) {
		t.Parallel()
		_, err := blobstore.NewLocal(blobstore.Active, " ")
		assert.ErrorIs(t, err, blobstore.ErrInvalidConfig)
	})

	t.Run("unknown namespace", func(t *testing.T) {
		t.Parallel()
		_, err := blobstore.NewLocal("trash", t.TempDir())
		assert.ErrorIs(t, err, blobstore.ErrUnknownNamespace)
	})

	t.Run("new store is empty", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)
		assert.Empty(t, sortedNames(t, active))
	})
}

func TestLocal_PutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)

		n, err := active.Put(ctx, "report.pdf", bytes.NewReader(make([]byte, 1024)))
		require.NoError(t, err)
		assert.Equal(t, int64(1024), n)

		rc, err := active.Get(ctx, "report.pdf")
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Len(t, data, 1024)

		info, err := os.Stat(filepath.Join(active.Root(), "report.pdf"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("last write wins", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)

		_, err := active.Put(ctx, "a.txt", strings.NewReader("first"))
		require.NoError(t, err)
		_, err = active.Put(ctx, "a.txt", strings.NewReader("second"))
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(active.Root(), "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
		assert.Equal(t, []string{"a.txt"}, sortedNames(t, active))
	})

	t.Run("replaces directory entry", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)
		writeTree(t, active.Root(), map[string]string{"docs/a.txt": "a"})

		_, err := active.Put(ctx, "docs", strings.NewReader("flat"))
		require.NoError(t, err)

		info, err := os.Stat(filepath.Join(active.Root(), "docs"))
		require.NoError(t, err)
		assert.False(t, info.IsDir())
	})

	t.Run("size limit leaves no entry", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t, blobstore.WithMaxSize(4))

		_, err := active.Put(ctx, "big.bin", strings.NewReader("too large"))
		assert.ErrorIs(t, err, blobstore.ErrTooLarge)
		assert.Empty(t, sortedNames(t, active))
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)

		_, err := active.Put(ctx, "../escape.txt", strings.NewReader("x"))
		assert.ErrorIs(t, err, blobstore.ErrInvalidName)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := active.Put(cctx, "a.txt", strings.NewReader("x"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)

		_, err := active.Get(ctx, "missing.txt")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("get directory", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)
		writeTree(t, active.Root(), map[string]string{"docs/a.txt": "a"})

		_, err := active.Get(ctx, "docs")
		assert.ErrorIs(t, err, blobstore.ErrIsDirectory)
	})
}

func TestLocal_Stage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	stagingFiles := func(t *testing.T, s *blobstore.Local) []os.DirEntry {
		t.Helper()
		dir := filepath.Join(filepath.Dir(s.Root()), ".staging-"+filepath.Base(s.Root()))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		return entries
	}

	t.Run("invisible until commit", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)

		staged, err := active.Stage(ctx, "a.txt", strings.NewReader("abc"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), staged.Size())
		assert.Empty(t, sortedNames(t, active))

		require.NoError(t, staged.Commit(ctx))
		assert.Equal(t, []string{"a.txt"}, sortedNames(t, active))
		assert.Empty(t, stagingFiles(t, active))
		assert.NoError(t, staged.Discard())
		assert.ErrorIs(t, staged.Commit(ctx), blobstore.ErrStagedClosed)
	})

	t.Run("discard removes staging file", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)

		staged, err := active.Stage(ctx, "a.txt", strings.NewReader("abc"))
		require.NoError(t, err)
		assert.Len(t, stagingFiles(t, active), 1)

		require.NoError(t, staged.Discard())
		assert.Empty(t, stagingFiles(t, active))
		assert.Empty(t, sortedNames(t, active))
		assert.ErrorIs(t, staged.Commit(ctx), blobstore.ErrStagedClosed)
	})

	t.Run("size limit stages nothing", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t, blobstore.WithMaxSize(2))

		_, err := active.Stage(ctx, "a.txt", strings.NewReader("abc"))
		assert.ErrorIs(t, err, blobstore.ErrTooLarge)
		assert.Empty(t, stagingFiles(t, active))
	})
}

func TestLocal_ExistsListRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	active, _ := newLocalPair(t)
	writeTree(t, active.Root(), map[string]string{
		"a.txt":       "a",
		"docs/b.txt":  "bb",
		"docs/c/d.md": "ddd",
	})

	ok, err := active.Exists(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = active.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "no prefix matching")

	ok, err = active.Exists(ctx, "../active")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := active.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, e.Name == "docs", e.IsDir)
	}

	require.NoError(t, active.Remove(ctx, "docs"))
	assert.Equal(t, []string{"a.txt"}, sortedNames(t, active))

	err = active.Remove(ctx, "docs")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLocal_SizeOf(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("file and nested directory", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)
		writeTree(t, active.Root(), map[string]string{
			"a.txt":         "12345",
			"docs/b.txt":    "12",
			"docs/c/d.md":   "123",
			"docs/c/e/f.md": "1234",
		})

		size, err := active.SizeOf(ctx, "a.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(5), size)

		size, err = active.SizeOf(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, int64(9), size)
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)
		require.NoError(t, os.Mkdir(filepath.Join(active.Root(), "empty"), 0755))

		size, err := active.SizeOf(ctx, "empty")
		require.NoError(t, err)
		assert.Zero(t, size)
	})

	t.Run("missing entry", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)

		_, err := active.SizeOf(ctx, "missing")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("symlinks are not followed", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("symlinks require privileges on windows")
		}
		active, _ := newLocalPair(t)
		outside := t.TempDir()
		writeTree(t, outside, map[string]string{"huge.bin": strings.Repeat("x", 4096)})
		writeTree(t, active.Root(), map[string]string{"docs/a.txt": "abc"})

		require.NoError(t, os.Symlink(outside, filepath.Join(active.Root(), "docs", "link")))
		require.NoError(t, os.Symlink(filepath.Join(active.Root(), "docs"), filepath.Join(active.Root(), "docs", "loop")))

		size, err := active.SizeOf(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, int64(3), size)
	})

	t.Run("depth limit", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t, blobstore.WithMaxDepth(1))
		writeTree(t, active.Root(), map[string]string{
			"docs/a.txt":     "a",
			"docs/b/c.txt":   "cc",
			"docs/b/d/e.txt": "eee",
		})

		size, err := active.SizeOf(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, int64(3), size)
	})

	t.Run("unreadable descendant is skipped", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		active, _ := newLocalPair(t)
		writeTree(t, active.Root(), map[string]string{
			"docs/a.txt":        "abcd",
			"docs/locked/b.txt": "bb",
		})
		locked := filepath.Join(active.Root(), "docs", "locked")
		require.NoError(t, os.Chmod(locked, 0))
		t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

		size, err := active.SizeOf(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, int64(4), size)
	})
}

func TestLocal_Move(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		active, recycle := newLocalPair(t)
		writeTree(t, active.Root(), map[string]string{"report.pdf": "pdf"})

		require.NoError(t, active.Move(ctx, "report.pdf", recycle, "report.pdf"))

		inActive, err := active.Exists(ctx, "report.pdf")
		require.NoError(t, err)
		inRecycle, err := recycle.Exists(ctx, "report.pdf")
		require.NoError(t, err)
		assert.False(t, inActive)
		assert.True(t, inRecycle)
	})

	t.Run("overwrites same-named file", func(t *testing.T) {
		t.Parallel()
		active, recycle := newLocalPair(t)
		writeTree(t, active.Root(), map[string]string{"a.txt": "new"})
		writeTree(t, recycle.Root(), map[string]string{"a.txt": "old"})

		require.NoError(t, active.Move(ctx, "a.txt", recycle, "a.txt"))

		data, err := os.ReadFile(filepath.Join(recycle.Root(), "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("directory over directory", func(t *testing.T) {
		t.Parallel()
		active, recycle := newLocalPair(t)
		writeTree(t, active.Root(), map[string]string{"docs/new.txt": "n"})
		writeTree(t, recycle.Root(), map[string]string{"docs/old.txt": "o"})

		require.NoError(t, active.Move(ctx, "docs", recycle, "docs"))

		_, err := os.Stat(filepath.Join(recycle.Root(), "docs", "new.txt"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(recycle.Root(), "docs", "old.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing source leaves stores unchanged", func(t *testing.T) {
		t.Parallel()
		active, recycle := newLocalPair(t)
		writeTree(t, recycle.Root(), map[string]string{"keep.txt": "k"})

		err := active.Move(ctx, "missing", recycle, "missing")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
		assert.Empty(t, sortedNames(t, active))
		assert.Equal(t, []string{"keep.txt"}, sortedNames(t, recycle))
	})

	t.Run("foreign destination", func(t *testing.T) {
		t.Parallel()
		active, _ := newLocalPair(t)
		writeTree(t, active.Root(), map[string]string{"a.txt": "a"})

		err := active.Move(ctx, "a.txt", foreignStore{}, "a.txt")
		assert.ErrorIs(t, err, blobstore.ErrCrossStoreMove)
		assert.Equal(t, []string{"a.txt"}, sortedNames(t, active))
	})
}

// foreignStore satisfies Store without being a Local.
type foreignStore struct {
	blobstore.Store
}
