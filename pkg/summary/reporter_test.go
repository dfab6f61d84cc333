package summary_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
	"github.com/dmitrymomot/recyclebin/pkg/email"
	"github.com/dmitrymomot/recyclebin/pkg/lifecycle"
	"github.com/dmitrymomot/recyclebin/pkg/summary"
	"github.com/dmitrymomot/recyclebin/pkg/validator"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	active  *blobstore.Local
	recycle *blobstore.Local
	manager *lifecycle.Manager
	sender  *MockEmailSender
	logs    *bytes.Buffer
	rep     *summary.Reporter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	active, err := blobstore.NewLocal(blobstore.Active, filepath.Join(root, "active"))
	require.NoError(t, err)
	recycle, err := blobstore.NewLocal(blobstore.Recycle, filepath.Join(root, "recycle"))
	require.NoError(t, err)
	m, err := lifecycle.New(active, recycle)
	require.NoError(t, err)

	f := &fixture{active: active, recycle: recycle, manager: m, sender: new(MockEmailSender), logs: &bytes.Buffer{}}
	f.rep, err = summary.New(active, recycle, f.sender,
		summary.WithLocker(m.RLocker()),
		summary.WithLogger(slog.New(slog.NewTextHandler(f.logs, nil))),
		summary.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return f
}

func (f *fixture) upload(t *testing.T, name string, size int) {
	t.Helper()
	_, _, err := f.manager.Upload(context.Background(), name, bytes.NewReader(make([]byte, size)))
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := summary.New(nil, nil, nil)
	assert.ErrorIs(t, err, summary.ErrMissingDependency)
}

func TestReporter_BuildSummary(t *testing.T) {
	t.Parallel()

	t.Run("empty stores", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		s, err := f.rep.BuildSummary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{}, s.ActiveEntries)
		assert.Equal(t, []string{}, s.RecycleEntries)
		assert.Zero(t, s.ActiveBytes)
		assert.Zero(t, s.RecycleBytes)
		assert.Equal(t, fixedNow, s.GeneratedAt)
	})

	t.Run("after upload", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.upload(t, "report.pdf", 1024)

		s, err := f.rep.BuildSummary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"report.pdf"}, s.ActiveEntries)
		assert.Equal(t, int64(1024), s.ActiveBytes)
		assert.Equal(t, []string{}, s.RecycleEntries)
		assert.Zero(t, s.RecycleBytes)
	})

	t.Run("reflects soft delete and purge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.upload(t, "a.bin", 2048)
		f.upload(t, "b.bin", 10)
		_, err := f.manager.SoftDelete(context.Background(), "a.bin")
		require.NoError(t, err)

		s, err := f.rep.BuildSummary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"b.bin"}, s.ActiveEntries)
		assert.Equal(t, []string{"a.bin"}, s.RecycleEntries)
		assert.Equal(t, int64(10), s.ActiveBytes)
		assert.Equal(t, int64(2048), s.RecycleBytes)

		_, err = f.manager.Purge(context.Background())
		require.NoError(t, err)
		s, err = f.rep.BuildSummary(context.Background())
		require.NoError(t, err)
		assert.Empty(t, s.RecycleEntries)
		assert.Zero(t, s.RecycleBytes)
	})

	t.Run("waits for the lock", func(t *testing.T) {
		t.Parallel()
		var mu sync.Mutex
		root := t.TempDir()
		active, err := blobstore.NewLocal(blobstore.Active, filepath.Join(root, "a"))
		require.NoError(t, err)
		recycle, err := blobstore.NewLocal(blobstore.Recycle, filepath.Join(root, "r"))
		require.NoError(t, err)
		rep, err := summary.New(active, recycle, new(MockEmailSender), summary.WithLocker(&mu))
		require.NoError(t, err)

		mu.Lock()
		done := make(chan struct{})
		go func() {
			_, _ = rep.BuildSummary(context.Background())
			close(done)
		}()
		select {
		case <-done:
			t.Fatal("summary built while lock was held")
		case <-time.After(50 * time.Millisecond):
		}
		mu.Unlock()
		<-done
	})
}

func TestReporter_Notify(t *testing.T) {
	t.Parallel()

	t.Run("delivers rendered report", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.upload(t, "report.pdf", 1024*1024+512*1024)

		f.sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return p.SendTo == "ops@example.com" &&
				p.Subject == summary.DefaultSubject &&
				p.Tag == summary.DefaultTag &&
				strings.Contains(p.BodyHTML, "<li>report.pdf</li>") &&
				strings.Contains(p.BodyHTML, "1.50 MB") &&
				strings.Contains(p.BodyHTML, "0.00 MB")
		})).Return(nil).Once()

		s, err := f.rep.Notify(context.Background(), " ops@example.com ")
		require.NoError(t, err)
		assert.Equal(t, []string{"report.pdf"}, s.ActiveEntries)
		f.sender.AssertExpectations(t)
		assert.Contains(t, f.logs.String(), "summary delivered")
	})

	t.Run("invalid address is a validation error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		for _, addr := range []string{"", "   ", "not-an-address"} {
			_, err := f.rep.Notify(context.Background(), addr)
			require.Error(t, err, addr)
			assert.True(t, validator.IsValidationError(err), addr)
			assert.True(t, validator.ExtractValidationErrors(err).Has("email"), addr)
		}
		f.sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("delivery failure is a notification failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.upload(t, "report.pdf", 1024)

		cause := errors.New("smtp unavailable")
		f.sender.On("SendEmail", mock.Anything, mock.Anything).Return(cause).Once()

		s, err := f.rep.Notify(context.Background(), "ops@example.com")
		require.Error(t, err)
		assert.ErrorIs(t, err, summary.ErrNotificationFailed)
		assert.ErrorIs(t, err, cause)
		assert.False(t, errors.Is(err, blobstore.ErrIO))
		assert.Equal(t, int64(1024), s.ActiveBytes)
		assert.Contains(t, f.logs.String(), "failed to deliver summary")
	})

	t.Run("storage failure is not a notification failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.rep.Notify(ctx, "ops@example.com")
		require.Error(t, err)
		assert.False(t, errors.Is(err, summary.ErrNotificationFailed))
		f.sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})
}

func TestFormatMB(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0.00", summary.FormatMB(0))
	assert.Equal(t, "1.00", summary.FormatMB(1024*1024))
	assert.Equal(t, "0.01", summary.FormatMB(10*1024))
	assert.Equal(t, "2.50", summary.Summary{RecycleBytes: 5 * 512 * 1024}.RecycleMB())
}

func TestReport_EscapesNames(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := summary.Report("Stored files summary", summary.Summary{
		ActiveEntries: []string{"<script>.txt"},
		Skipped:       []string{"recycle/broken"},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "&lt;script&gt;.txt")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "No files")
	assert.Contains(t, out, "recycle/broken")
}

func TestRenderReport(t *testing.T) {
	t.Parallel()

	body, err := summary.RenderReport(context.Background(), "Daily", summary.Summary{
		ActiveEntries: []string{"a.txt"},
		ActiveBytes:   3 * 1024 * 1024,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "<h2>Daily</h2>")
	assert.Contains(t, body, "a.txt")
	assert.Contains(t, body, "3.00 MB")
}
