package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Limits bounds path lengths, value sizes and the node count.
type Limits struct {
	// MaxAbsPath is the longest accepted absolute path, in bytes.
	MaxAbsPath int
	// MaxRelPath is the longest accepted relative path, in bytes.
	MaxRelPath int
	// MaxNodeSize is the largest value a non-privileged domain may write.
	MaxNodeSize int
	// MaxDomainNodes caps the node count for writes by non-privileged domains.
	MaxDomainNodes uint
}

// Default limits.
const (
	DefaultMaxAbsPath     = 3072
	DefaultMaxRelPath     = 2048
	DefaultMaxNodeSize    = 2048
	DefaultMaxDomainNodes = 1000
)

// DefaultLimits returns the limits of a stock xenstored.
func DefaultLimits() Limits {
	return Limits{
		MaxAbsPath:     DefaultMaxAbsPath,
		MaxRelPath:     DefaultMaxRelPath,
		MaxNodeSize:    DefaultMaxNodeSize,
		MaxDomainNodes: DefaultMaxDomainNodes,
	}
}

// withDefaults fills zero fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxAbsPath <= 0 {
		l.MaxAbsPath = d.MaxAbsPath
	}
	if l.MaxRelPath <= 0 {
		l.MaxRelPath = d.MaxRelPath
	}
	if l.MaxNodeSize <= 0 {
		l.MaxNodeSize = d.MaxNodeSize
	}
	if l.MaxDomainNodes == 0 {
		l.MaxDomainNodes = d.MaxDomainNodes
	}
	return l
}

// Path is a canonical absolute store path split into segments.
// The root has no segments.
type Path struct {
	segments []string
}

// Segments returns the path components from the root down.
func (p Path) Segments() []string {
	return p.segments
}

// Depth returns the number of components.
func (p Path) Depth() int {
	return len(p.segments)
}

// String returns the path in slash form.
func (p Path) String() string {
	return "/" + strings.Join(p.segments, "/")
}

// DomainPath returns the home directory of a domain.
func DomainPath(domid uint32) string {
	return "/local/domain/" + strconv.FormatUint(uint64(domid), 10)
}

// ResolvePath validates a client path and turns it into canonical absolute
// form. Relative paths are taken relative to the home directory of domid.
//
// Checks run in this order: empty path, trailing slash, empty component,
// character set, then the length limit for the absolute or relative form.
// A lone "/" names the root.
func ResolvePath(userPath string, domid uint32, limits Limits) (Path, error) {
	if userPath == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	if userPath == "/" {
		return Path{}, nil
	}
	if strings.HasSuffix(userPath, "/") {
		return Path{}, fmt.Errorf("%w: trailing slash in %q", ErrInvalidArgument, userPath)
	}
	if strings.Contains(userPath, "//") {
		return Path{}, fmt.Errorf("%w: empty component in %q", ErrInvalidArgument, userPath)
	}
	for i := 0; i < len(userPath); i++ {
		if !validPathChar(userPath[i]) {
			return Path{}, fmt.Errorf("%w: character %q at offset %d", ErrInvalidArgument, userPath[i], i)
		}
	}

	var abs string
	if userPath[0] == '/' {
		if len(userPath) > limits.MaxAbsPath {
			return Path{}, fmt.Errorf("%w: path of %d bytes exceeds %d", ErrTooLarge, len(userPath), limits.MaxAbsPath)
		}
		abs = userPath
	} else {
		if len(userPath) > limits.MaxRelPath {
			return Path{}, fmt.Errorf("%w: relative path of %d bytes exceeds %d", ErrTooLarge, len(userPath), limits.MaxRelPath)
		}
		abs = DomainPath(domid) + "/" + userPath
	}

	return Path{segments: strings.Split(abs[1:], "/")}, nil
}

// validPathChar reports whether c may appear in a path: [A-Za-z0-9/_-].
func validPathChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '/' || c == '_' || c == '-':
		return true
	}
	return false
}
