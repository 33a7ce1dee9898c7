package lakefs

import (
	"errors"
	"fmt"

	"github.com/additiveai/lakeFS/api"
)

// Standard errors returned by object operations. Remote failures are
// normalized into this set exactly once, at the point of the remote
// call; remote categories outside the set pass through as *api.Error.
var (
	// Remote condition errors
	ErrObjectNotFound   = errors.New("lakefs: object not found")
	ErrPermissionDenied = errors.New("lakefs: permission denied")
	ErrObjectExists     = errors.New("lakefs: object already exists")

	// Local validation errors, raised before any network call
	ErrUnsupportedOperation = errors.New("lakefs: unsupported operation")
	ErrInvalidArgument      = errors.New("lakefs: invalid argument")

	// I/O errors
	ErrClosed = errors.New("lakefs: reader already closed")
)

// normalizeError maps a categorized remote failure into the error set
// above. Not-found becomes ErrObjectNotFound, unauthorized and forbidden
// both become ErrPermissionDenied, and any other category is passed
// through unchanged so the original status and reason stay visible.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}

	var remote *api.Error
	if !errors.As(err, &remote) {
		return err
	}

	switch remote.Category {
	case api.CategoryNotFound:
		return fmt.Errorf("%w: %s", ErrObjectNotFound, remote.Reason)
	case api.CategoryUnauthorized, api.CategoryForbidden:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, remote.Reason)
	}

	return err
}

// normalizeExistsError is the narrower policy used by existence checks:
// absence is a boolean result, never an error. Permission and server
// failures are still surfaced.
func normalizeExistsError(err error) (bool, error) {
	if err == nil {
		return true, nil
	}

	err = normalizeError(err)
	if errors.Is(err, ErrObjectNotFound) {
		return false, nil
	}

	return false, err
}
