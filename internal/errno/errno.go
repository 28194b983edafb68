// Package errno maps store errors to the POSIX error numbers a xenstore
// client expects. The request shell replies with these names and the
// metrics use them as result labels.
package errno

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/KilimcininKorOglu/xenstore/internal/store"
)

// Of returns the errno for err, or 0 for nil. System errors keep their own
// errno; anything else is EIO.
func Of(err error) unix.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, store.ErrNotFound):
		return unix.ENOENT
	case errors.Is(err, store.ErrTooLarge):
		return unix.E2BIG
	case errors.Is(err, store.ErrInvalidArgument):
		return unix.EINVAL
	case errors.Is(err, store.ErrQuotaExceeded):
		return unix.ENOSPC
	case errors.Is(err, store.ErrUnsupported):
		return unix.ENOSYS
	case errors.Is(err, store.ErrPermission):
		return unix.EACCES
	}
	var e unix.Errno
	if errors.As(err, &e) {
		return e
	}
	return unix.EIO
}

// Name returns the symbolic name of Of(err), e.g. "ENOENT".
func Name(err error) string {
	return unix.ErrnoName(Of(err))
}
