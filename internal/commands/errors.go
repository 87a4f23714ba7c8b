package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/oserror"

	"github.com/temirov/dirtree/internal/types"
)

// Contained failures. None of them is returned from Build; they are attached
// to log entries so callers filtering logs can use errors.Is.
var (
	// ErrAccessDenied marks a directory that could not be listed for lack of permission.
	ErrAccessDenied = errors.New("access denied")
	// ErrMissingOrBrokenTarget marks a directory that vanished or whose link dangles.
	ErrMissingOrBrokenTarget = errors.New("missing or broken target")
	// ErrBrokenSymlink marks a symlink whose target cannot be read or resolved.
	ErrBrokenSymlink = errors.New("broken symlink")
	// ErrSizeUnavailable marks a file whose size could not be read.
	ErrSizeUnavailable = errors.New("size unavailable")
)

// classifyListingError maps a directory listing failure onto its marker kind
// and returns the failure marked accordingly.
func classifyListingError(directoryPath string, listingError error) (types.ErrorKind, error) {
	if oserror.IsPermission(listingError) {
		return types.ErrorKindAccessDenied, errors.Mark(errors.Wrapf(listingError, "listing %s", directoryPath), ErrAccessDenied)
	}
	return types.ErrorKindMissingOrBrokenTarget, errors.Mark(errors.Wrapf(listingError, "listing %s", directoryPath), ErrMissingOrBrokenTarget)
}
