package env

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

var (
	// ErrNoListing is returned when a row is referenced before any listing succeeded.
	ErrNoListing = errors.New("no prior listing, run a list command first")

	// ErrNoSuchRow is matched by every *NoSuchRowError.
	ErrNoSuchRow = errors.New("no such row")

	// ErrUnknownContext is returned when switching to a context kubeconfig does not define.
	ErrUnknownContext = errors.New("unknown context")

	// ErrNothingSelected is returned when a command needs an object and none is selected.
	ErrNothingSelected = errors.New("no object selected, select a row or pass an index")
)

// NoSuchRowError reports a row index outside the current listing.
type NoSuchRowError struct {
	Index int
	Len   int
}

func (e *NoSuchRowError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("no such row %d: the last listing was empty", e.Index)
	}
	return fmt.Sprintf("no such row %d: valid rows are 1-%d", e.Index, e.Len)
}

// Is makes errors.Is(err, ErrNoSuchRow) true.
func (e *NoSuchRowError) Is(target error) bool {
	return target == ErrNoSuchRow
}

// DescribeError turns a transport or API error into the single line shown to the user.
func DescribeError(err error) string {
	var urlErr *url.Error
	var netErr net.Error

	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case apierrors.IsUnauthorized(err):
		return fmt.Sprintf("unauthorized: %s", apierrors.ReasonForError(err))
	case apierrors.IsForbidden(err), apierrors.IsNotFound(err), apierrors.IsConflict(err), apierrors.IsInvalid(err):
		return err.Error()
	case apierrors.IsTimeout(err), apierrors.IsServerTimeout(err):
		return fmt.Sprintf("server timeout: %v", err)
	case errors.As(err, &urlErr):
		return fmt.Sprintf("cannot reach cluster: %v", urlErr.Err)
	case errors.As(err, &netErr):
		return fmt.Sprintf("cannot reach cluster: %v", netErr)
	default:
		return err.Error()
	}
}
