package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflict is returned by moves under the reject policy when the target name is taken.
	ErrConflict = errors.New("entry already exists in target store")

	// ErrPartialPurge matches a *PurgeError via errors.Is.
	ErrPartialPurge = errors.New("recycle store partially purged")

	// ErrInvalidPolicy is returned when a collision policy name is not recognised.
	ErrInvalidPolicy = errors.New("invalid collision policy")

	// ErrMissingStore is returned by New when a store is nil or both stores are the same instance.
	ErrMissingStore = errors.New("active and recycle stores are required")
)

// PurgeError reports the recycle entries a purge could not remove.
// Failed is sorted. Entries not listed in Failed were removed.
type PurgeError struct {
	Failed []string
	Err    error
}

func (e *PurgeError) Error() string {
	msg := fmt.Sprintf("%s: %d entries left: %s", ErrPartialPurge, len(e.Failed), strings.Join(e.Failed, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrPartialPurge) succeed for any *PurgeError.
func (e *PurgeError) Is(target error) bool {
	return target == ErrPartialPurge
}

// FailedEntries extracts the failed names from a purge error.
func FailedEntries(err error) []string {
	var pe *PurgeError
	if errors.As(err, &pe) {
		return pe.Failed
	}
	return nil
}
