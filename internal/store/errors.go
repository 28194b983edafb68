package store

import "errors"

// Store errors. The request layer maps each of them to one errno.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTooLarge        = errors.New("argument too large")
	ErrNotFound        = errors.New("no such node")
	ErrQuotaExceeded   = errors.New("node quota exceeded")
	ErrUnsupported     = errors.New("operation not supported")
	ErrPermission      = errors.New("operation requires the privileged domain")
	ErrSnapshotClosed  = errors.New("snapshot has been released")
)
