// Package sizer computes aggregate byte usage of a blobstore.Store.
//
// Aggregation re-reads the store on every call: there is no cache, so callers pay a
// full walk per request. Entries that cannot be measured are logged and skipped
// instead of failing the whole report.
package sizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
	"github.com/dmitrymomot/recyclebin/pkg/logger"
)

// Aggregator sums entry sizes of a store.
type Aggregator struct {
	logger *slog.Logger
}

// Option configures Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used to report skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the outcome of one aggregation pass.
type Result struct {
	// Names lists every entry in enumeration order, including skipped ones.
	Names   []string
	Bytes   int64
	Entries int
	Skipped []string
}

// Aggregate returns the total byte size of every entry in store.
// Returns zero for an empty store. Fails only when the store itself cannot be listed
// or ctx is done.
func (a *Aggregator) Aggregate(ctx context.Context, store blobstore.Store) (int64, error) {
	res, err := a.Measure(ctx, store)
	if err != nil {
		return 0, err
	}
	return res.Bytes, nil
}

// Measure is Aggregate with per-entry accounting.
func (a *Aggregator) Measure(ctx context.Context, store blobstore.Store) (Result, error) {
	entries, err := store.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("aggregate %s: %w", store.Namespace(), err)
	}

	res := Result{Names: blobstore.Names(entries)}
	for _, e := range entries {
		size, err := store.SizeOf(ctx, e.Name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Result{}, err
			}
			a.logger.WarnContext(ctx, "skipping entry during size aggregation",
				logger.Store(string(store.Namespace())),
				logger.Entry(e.Name),
				logger.Error(err),
			)
			res.Skipped = append(res.Skipped, e.Name)
			continue
		}
		res.Bytes += size
		res.Entries++
	}

	return res, nil
}
