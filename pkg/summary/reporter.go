package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
	"github.com/dmitrymomot/recyclebin/pkg/email"
	"github.com/dmitrymomot/recyclebin/pkg/logger"
	"github.com/dmitrymomot/recyclebin/pkg/sizer"
	"github.com/dmitrymomot/recyclebin/pkg/validator"
)

const (
	DefaultSubject = "Stored files summary"
	DefaultTag     = "files-summary"
)

// maxAddressLen is the longest forward-path allowed by RFC 5321.
const maxAddressLen = 254

// Reporter builds summaries of the active and recycle stores and delivers
// them through an email.EmailSender.
type Reporter struct {
	active  blobstore.Store
	recycle blobstore.Store
	sender  email.EmailSender
	sizer   *sizer.Aggregator
	lock    sync.Locker
	logger  *slog.Logger
	subject string
	tag     string
	now     func() time.Time
}

// Option configures Reporter.
type Option func(*Reporter)

// WithLocker sets the lock held while both stores are read.
// Pass lifecycle.Manager.RLocker to exclude concurrent moves and purges.
func WithLocker(l sync.Locker) Option {
	return func(r *Reporter) {
		if l != nil {
			r.lock = l
		}
	}
}

func WithAggregator(a *sizer.Aggregator) Option {
	return func(r *Reporter) {
		if a != nil {
			r.sizer = a
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSubject overrides the email subject.
func WithSubject(s string) Option {
	return func(r *Reporter) {
		if s = strings.TrimSpace(s); s != "" {
			r.subject = s
		}
	}
}

// WithClock sets the time source used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// New creates a Reporter.
func New(active, recycle blobstore.Store, sender email.EmailSender, opts ...Option) (*Reporter, error) {
	if active == nil || recycle == nil || sender == nil {
		return nil, ErrMissingDependency
	}
	r := &Reporter{
		active:  active,
		recycle: recycle,
		sender:  sender,
		lock:    noopLocker{},
		logger:  slog.New(slog.DiscardHandler),
		subject: DefaultSubject,
		tag:     DefaultTag,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sizer == nil {
		r.sizer = sizer.New(sizer.WithLogger(r.logger))
	}
	return r, nil
}

// BuildSummary lists and measures both stores. Both stores are read in
// parallel while the configured lock is held.
func (r *Reporter) BuildSummary(ctx context.Context) (Summary, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var activeSide, recycleSide side
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error { return r.measure(ctx, r.active, &activeSide) })
	p.Go(func(ctx context.Context) error { return r.measure(ctx, r.recycle, &recycleSide) })
	if err := p.Wait(); err != nil {
		return Summary{}, err
	}

	return Summary{
		ActiveEntries:  activeSide.names,
		RecycleEntries: recycleSide.names,
		ActiveBytes:    activeSide.res.Bytes,
		RecycleBytes:   recycleSide.res.Bytes,
		Skipped:        append(activeSide.skipped(), recycleSide.skipped()...),
		GeneratedAt:    r.now(),
	}, nil
}

// Notify validates address, builds a summary and sends it as an HTML email.
// Storage failures are returned unchanged; delivery failures wrap ErrNotificationFailed.
func (r *Reporter) Notify(ctx context.Context, address string) (Summary, error) {
	address = strings.TrimSpace(address)
	if err := validator.Apply(
		validator.RequiredString("email", address),
		validator.MaxLenString("email", address, maxAddressLen),
		validator.ValidEmail("email", address),
	); err != nil {
		return Summary{}, err
	}

	s, err := r.BuildSummary(ctx)
	if err != nil {
		return Summary{}, err
	}

	body, err := RenderReport(ctx, r.subject, s)
	if err != nil {
		return s, fmt.Errorf("%w: render report: %v", ErrNotificationFailed, err)
	}

	if err := r.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   address,
		Subject:  r.subject,
		BodyHTML: body,
		Tag:      r.tag,
	}); err != nil {
		r.logger.ErrorContext(ctx, "failed to deliver summary",
			logger.Recipient(address),
			logger.Error(err),
		)
		return s, errors.Join(ErrNotificationFailed, err)
	}

	r.logger.InfoContext(ctx, "summary delivered",
		logger.Recipient(address),
		slog.Int64("active_bytes", s.ActiveBytes),
		slog.Int64("recycle_bytes", s.RecycleBytes),
	)
	return s, nil
}

type side struct {
	ns    blobstore.Namespace
	names []string
	res   sizer.Result
}

func (s side) skipped() []string {
	out := make([]string, 0, len(s.res.Skipped))
	for _, name := range s.res.Skipped {
		out = append(out, string(s.ns)+"/"+name)
	}
	return out
}

func (r *Reporter) measure(ctx context.Context, store blobstore.Store, out *side) error {
	res, err := r.sizer.Measure(ctx, store)
	if err != nil {
		return err
	}
	*out = side{ns: store.Namespace(), names: res.Names, res: res}
	return nil
}
