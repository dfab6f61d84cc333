package lifecycle

import (
	"fmt"
	"strings"
)

// CollisionPolicy decides what happens when a moved entry's name is already
// taken in the destination store.
type CollisionPolicy string

const (
	// Overwrite replaces the existing destination entry (last write wins).
	Overwrite CollisionPolicy = "overwrite"
	// Rename stores the moved entry under "<stem>-<suffix><ext>".
	Rename CollisionPolicy = "rename"
	// Reject fails the move with ErrConflict and leaves both stores untouched.
	Reject CollisionPolicy = "reject"
)

// ParsePolicy converts a configuration value into a CollisionPolicy.
// An empty value resolves to Overwrite.
func ParsePolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Overwrite, nil
	case Overwrite, Rename, Reject:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

func (p CollisionPolicy) String() string { return string(p) }
