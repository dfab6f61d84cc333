package summary

import "errors"

var (
	// ErrNotificationFailed is returned by Notify when the summary was computed
	// but the notifier could not deliver it.
	ErrNotificationFailed = errors.New("summary notification failed")

	// ErrMissingDependency is returned by New when a store or the sender is nil.
	ErrMissingDependency = errors.New("summary reporter requires both stores and a sender")
)
