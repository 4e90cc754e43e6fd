package depgraph

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrInvalidArgument indicates a missing required identifying
	// field on a write or lifecycle call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates an operation referenced a job or build
	// that does not exist. Listing operations never return it;
	// absence of data is an empty result.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable indicates the underlying persistence is
	// unreachable. Not retried internally; callers decide.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInconsistent indicates a defensive consistency check
	// failed, e.g. an edge referencing a build that disappeared.
	ErrInconsistent = errors.New("inconsistent graph state")
)

// requireFields validates alternating name/value pairs of required
// identifying fields.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return errors.Wrapf(ErrInvalidArgument, "%s is required", pairs[i])
		}
	}
	return nil
}

// storageErr classifies driver failures so callers can test with
// errors.Is against the error kinds above.
func storageErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrInvalidDB) {
		return errors.Wrapf(ErrStorageUnavailable, "%s: %v", op, err)
	}
	return errors.Wrap(err, op)
}
