package store

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KilimcininKorOglu/xenstore/internal/logging"
)

// Operation names passed to a Recorder.
const (
	OpRead      = "read"
	OpWrite     = "write"
	OpMkdir     = "mkdir"
	OpRemove    = "rm"
	OpDirectory = "directory"
	OpImport    = "import"
)

// Recorder observes completed store operations.
type Recorder interface {
	// ObserveOp is called once per facade operation with its outcome.
	ObserveOp(op string, err error, elapsed time.Duration)
	// SetNodeCount is called with the node count after every operation.
	SetNodeCount(n uint)
}

// Options configures a Store.
type Options struct {
	// Limits bounds paths, values and the node count. Zero fields take
	// their defaults.
	Limits Limits

	// Logger receives per-operation debug output. nil disables logging.
	Logger logging.Logger

	// Recorder receives per-operation metrics. nil disables recording.
	Recorder Recorder
}

// DefaultOptions returns Options with default limits and no logging.
func DefaultOptions() Options {
	return Options{
		Limits: DefaultLimits(),
	}
}

// Stats is a point-in-time summary of a Store.
type Stats struct {
	Nodes          uint
	RootGeneration uint64
	Snapshots      int64
}

// Store owns the live tree. Operations on one Store are serialized by its
// mutex; snapshots taken from it are read without the lock.
type Store struct {
	mu     sync.Mutex
	root   *Node
	nodes  uint
	limits Limits

	logger    logging.Logger
	recorder  Recorder
	snapshots atomic.Int64
}

// New returns a store holding a single empty root node.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Store{
		root:     NewNode(),
		nodes:    1,
		limits:   opts.Limits.withDefaults(),
		logger:   logger,
		recorder: opts.Recorder,
	}
	if s.recorder != nil {
		s.recorder.SetNodeCount(s.nodes)
	}
	return s
}

// Limits returns the limits the store enforces.
func (s *Store) Limits() Limits {
	return s.limits
}

// NodeCount returns the number of nodes in the live tree, root included.
func (s *Store) NodeCount() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes
}

// Stats returns a summary of the store.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Nodes:          s.nodes,
		RootGeneration: s.root.gen,
		Snapshots:      s.snapshots.Load(),
	}
}

// Read returns the value stored at path.
func (s *Store) Read(domid uint32, path string) ([]byte, error) {
	var out []byte
	err := s.exec(OpRead, domid, path, &walk{op: readContent(&out)})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Write stores data at path, creating missing parent nodes. The store keeps
// its own copy of data.
func (s *Store) Write(domid uint32, path string, data []byte) error {
	value := bytes.Clone(data)
	if value == nil {
		value = []byte{}
	}
	return s.exec(OpWrite, domid, path, &walk{
		op:            writeContent(value),
		mutating:      true,
		createMissing: true,
	})
}

// Mkdir creates path and any missing parents. Existing nodes keep their
// values and generations.
func (s *Store) Mkdir(domid uint32, path string) error {
	return s.exec(OpMkdir, domid, path, &walk{
		op:            touch,
		mutating:      true,
		createMissing: true,
	})
}

// Remove deletes the node at path together with its whole subtree.
func (s *Store) Remove(domid uint32, path string) error {
	return s.exec(OpRemove, domid, path, &walk{
		op:       removeSubtree,
		mutating: true,
	})
}

// Directory returns the sorted names of the children of path, together with
// the node's generation. The generation changes whenever a child is added or
// removed, so callers can tell whether a listing is still current.
func (s *Store) Directory(domid uint32, path string) (uint64, []string, error) {
	var (
		gen   uint64
		names []string
	)
	err := s.exec(OpDirectory, domid, path, &walk{op: listChildren(&gen, &names)})
	if err != nil {
		return 0, nil, err
	}
	return gen, names, nil
}

// exec resolves path, runs the walk against the live root and, for a
// successful mutating walk, installs the new root and node count together.
func (s *Store) exec(op string, domid uint32, path string, w *walk) error {
	start := time.Now()

	resolved, err := ResolvePath(path, domid, s.limits)
	if err != nil {
		s.finish(op, domid, path, err, start)
		return err
	}
	w.segments = resolved.segments
	w.domid = domid
	w.limits = s.limits

	s.mu.Lock()
	w.nodes = s.nodes
	root := s.root
	err = w.run(&root)
	if err == nil && w.mutating {
		s.root = root
		s.nodes = w.nodes
	}
	s.mu.Unlock()

	s.finish(op, domid, resolved.String(), err, start)
	return err
}

func (s *Store) finish(op string, domid uint32, path string, err error, start time.Time) {
	elapsed := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveOp(op, err, elapsed)
		s.recorder.SetNodeCount(s.NodeCount())
	}

	switch {
	case err == nil:
		s.logger.Debug("store operation", "op", op, "domid", domid, "path", path)
	case errors.Is(err, ErrQuotaExceeded):
		s.logger.Warn("node quota exceeded", "op", op, "domid", domid, "path", path,
			"limit", s.limits.MaxDomainNodes)
	default:
		s.logger.Debug("store operation failed", "op", op, "domid", domid, "path", path, "error", err)
	}
}
