package files

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
	"github.com/dmitrymomot/recyclebin/pkg/email"
	"github.com/dmitrymomot/recyclebin/pkg/httpserver"
	"github.com/dmitrymomot/recyclebin/pkg/lifecycle"
	"github.com/dmitrymomot/recyclebin/pkg/logger"
	"github.com/dmitrymomot/recyclebin/pkg/sizer"
	"github.com/dmitrymomot/recyclebin/pkg/summary"
)

// Service is the boundary of the files subsystem used by the HTTP module and the CLI.
type Service struct {
	manager  *lifecycle.Manager
	reporter *summary.Reporter
	sizer    *sizer.Aggregator
	logger   *slog.Logger
}

// Uploaded describes a stored upload.
type Uploaded struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

// Sizes holds the aggregate byte size of each store.
type Sizes struct {
	ActiveBytes  int64 `json:"active_bytes" yaml:"active_bytes"`
	RecycleBytes int64 `json:"recycle_bytes" yaml:"recycle_bytes"`
}

// New wires a Service over two stores. The reporter shares the manager's lock
// so summaries never observe a half-finished move or purge.
func New(active, recycle blobstore.Store, sender email.EmailSender, cfg Config, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	policy, err := lifecycle.ParsePolicy(cfg.CollisionPolicy)
	if err != nil {
		return nil, err
	}

	manager, err := lifecycle.New(active, recycle,
		lifecycle.WithPolicy(policy),
		lifecycle.WithPurgeConcurrency(cfg.PurgeConcurrency),
		lifecycle.WithLogger(log.With(logger.Component("lifecycle"))),
	)
	if err != nil {
		return nil, err
	}

	agg := sizer.New(sizer.WithLogger(log.With(logger.Component("sizer"))))
	reporter, err := summary.New(active, recycle, sender,
		summary.WithLocker(manager.RLocker()),
		summary.WithAggregator(agg),
		summary.WithLogger(log.With(logger.Component("summary"))),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		manager:  manager,
		reporter: reporter,
		sizer:    agg,
		logger:   log,
	}, nil
}

// NewFromConfig opens the configured stores and wires a Service over them.
// Invalid settings fail with validator.ValidationErrors before any store is opened.
func NewFromConfig(ctx context.Context, cfg Config, sender email.EmailSender, log *slog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	active, recycle, err := OpenStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return New(active, recycle, sender, cfg, log)
}

// Upload stores r in the active store and returns the stored name.
func (s *Service) Upload(ctx context.Context, name string, r io.Reader) (Uploaded, error) {
	stored, n, err := s.manager.Upload(ctx, name, r)
	if err != nil {
		return Uploaded{}, err
	}
	return Uploaded{Name: stored, Size: n}, nil
}

// List returns entry names of the store identified by storeID ("active" or "recycle").
// An empty storeID lists the active store.
func (s *Service) List(ctx context.Context, storeID string) ([]string, error) {
	ns, err := blobstore.ParseNamespace(storeID)
	if err != nil {
		return nil, err
	}
	names, err := s.manager.List(ctx, ns)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Download opens a file entry for reading. The caller closes the reader.
func (s *Service) Download(ctx context.Context, storeID, name string) (io.ReadCloser, error) {
	ns, err := blobstore.ParseNamespace(storeID)
	if err != nil {
		return nil, err
	}
	return s.manager.Open(ctx, ns, name)
}

// SoftDelete moves name to the recycle store and returns its name there.
func (s *Service) SoftDelete(ctx context.Context, name string) (string, error) {
	return s.manager.SoftDelete(ctx, name)
}

// Restore moves name back to the active store and returns its name there.
func (s *Service) Restore(ctx context.Context, name string) (string, error) {
	return s.manager.Restore(ctx, name)
}

// Purge empties the recycle store and returns how many entries were removed.
// Remaining entries are reported through *lifecycle.PurgeError.
func (s *Service) Purge(ctx context.Context) (int, error) {
	return s.manager.Purge(ctx)
}

// Sizes aggregates both stores under the manager's read lock.
func (s *Service) Sizes(ctx context.Context) (Sizes, error) {
	lock := s.manager.RLocker()
	lock.Lock()
	defer lock.Unlock()

	var out Sizes
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		n, err := s.sizer.Aggregate(ctx, s.manager.Active())
		out.ActiveBytes = n
		return err
	})
	p.Go(func(ctx context.Context) error {
		n, err := s.sizer.Aggregate(ctx, s.manager.Recycle())
		out.RecycleBytes = n
		return err
	})
	if err := p.Wait(); err != nil {
		return Sizes{}, err
	}
	return out, nil
}

// Summary builds a summary of both stores without delivering it.
func (s *Service) Summary(ctx context.Context) (summary.Summary, error) {
	return s.reporter.BuildSummary(ctx)
}

// RequestSummaryNotification builds a summary and sends it to address.
func (s *Service) RequestSummaryNotification(ctx context.Context, address string) (summary.Summary, error) {
	return s.reporter.Notify(ctx, address)
}

// Checks returns readiness checks verifying both stores can be listed.
func (s *Service) Checks() map[string]httpserver.CheckFunc {
	check := func(store blobstore.Store) httpserver.CheckFunc {
		return func(ctx context.Context) error {
			_, err := store.List(ctx)
			return err
		}
	}
	return map[string]httpserver.CheckFunc{
		string(blobstore.Active):  check(s.manager.Active()),
		string(blobstore.Recycle): check(s.manager.Recycle()),
	}
}
