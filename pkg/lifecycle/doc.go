// Package lifecycle implements the soft-delete lifecycle of stored entries.
//
// An entry is created in the active store by Upload, moved to the recycle
// store by SoftDelete (and back by Restore), and destroyed only by Purge,
// which empties the recycle store irreversibly.
//
// Moves are all-or-nothing from the caller's view: between two filesystem
// stores a move is a single rename, otherwise the entry is copied and the
// source removed only once the copy succeeded. A name already present in the
// destination is handled by the configured CollisionPolicy.
//
// Purge removes entries concurrently and reports entries it could not remove
// as a *PurgeError, so callers can tell an empty bin from a partially emptied one:
//
//	if _, err := m.Purge(ctx); errors.Is(err, lifecycle.ErrPartialPurge) {
//		log.Warn("purge incomplete", "failed", lifecycle.FailedEntries(err))
//	}
//
// Every mutation holds the Manager write lock. Components that aggregate over
// both stores take RLocker so they never observe a half-applied purge or move.
package lifecycle
