package lifecycle

import (
	"log/slog"

	"github.com/google/uuid"
)

// DefaultPurgeConcurrency bounds the number of parallel removals during purge.
const DefaultPurgeConcurrency = 4

// Option configures a Manager.
type Option func(*Manager)

// WithPolicy sets the collision policy used by SoftDelete and Restore.
func WithPolicy(p CollisionPolicy) Option {
	return func(m *Manager) {
		if p != "" {
			m.policy = p
		}
	}
}

// WithPurgeConcurrency sets how many recycle entries are removed in parallel.
// Values below 1 are ignored.
func WithPurgeConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSuffixFunc overrides the generator of rename-policy suffixes.
func WithSuffixFunc(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.suffix = fn
		}
	}
}

func randomSuffix() string {
	return uuid.NewString()[:8]
}
