//go:build linux

package lifecycle_test

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
	"github.com/dmitrymomot/recyclebin/pkg/lifecycle"
)

func TestManager_SoftDeleteAcrossFilesystems(t *testing.T) {
	t.Parallel()

	activeRoot := t.TempDir()
	recycleRoot, err := os.MkdirTemp("/dev/shm", "recyclebin-")
	if err != nil {
		t.Skipf("no tmpfs available: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(recycleRoot) })

	var a, b syscall.Stat_t
	require.NoError(t, syscall.Stat(activeRoot, &a))
	require.NoError(t, syscall.Stat(recycleRoot, &b))
	if a.Dev == b.Dev {
		t.Skip("temp dir and /dev/shm share a filesystem")
	}

	active, err := blobstore.NewLocal(blobstore.Active, filepath.Join(activeRoot, "active"))
	require.NoError(t, err)
	recycle, err := blobstore.NewLocal(blobstore.Recycle, filepath.Join(recycleRoot, "recycle"))
	require.NoError(t, err)
	m, err := lifecycle.New(active, recycle)
	require.NoError(t, err)

	put(t, active, "report.pdf", "pdf")

	stored, err := m.SoftDelete(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", stored)
	assert.False(t, exists(t, active, "report.pdf"))
	assert.Equal(t, "pdf", read(t, recycle, "report.pdf"))
}
