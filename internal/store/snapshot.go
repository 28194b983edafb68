package store

import "sync/atomic"

// Snapshot is a read-only view of the tree as it was when the snapshot was
// taken. It holds a reference to that root, which forces later writers to
// copy every node they would otherwise change in place.
type Snapshot struct {
	store  *Store
	root   *Node
	nodes  uint
	limits Limits
	closed atomic.Bool
}

// Snapshot captures the current tree. Close must be called to release it.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots.Add(1)
	return &Snapshot{
		store:  s,
		root:   s.root.Acquire(),
		nodes:  s.nodes,
		limits: s.limits,
	}
}

// NodeCount returns the number of nodes the tree had when captured.
func (sn *Snapshot) NodeCount() uint {
	return sn.nodes
}

// Read returns the value at path as of the snapshot.
func (sn *Snapshot) Read(domid uint32, path string) ([]byte, error) {
	var out []byte
	if err := sn.exec(domid, path, readContent(&out)); err != nil {
		return nil, err
	}
	return out, nil
}

// Directory lists the children of path as of the snapshot.
func (sn *Snapshot) Directory(domid uint32, path string) (uint64, []string, error) {
	var (
		gen   uint64
		names []string
	)
	if err := sn.exec(domid, path, listChildren(&gen, &names)); err != nil {
		return 0, nil, err
	}
	return gen, names, nil
}

// Close releases the snapshot's reference to its root.
func (sn *Snapshot) Close() error {
	if !sn.closed.CompareAndSwap(false, true) {
		return ErrSnapshotClosed
	}
	sn.store.snapshots.Add(-1)
	sn.root.Release()
	sn.root = nil
	return nil
}

func (sn *Snapshot) exec(domid uint32, path string, op terminalOp) error {
	if sn.closed.Load() {
		return ErrSnapshotClosed
	}
	resolved, err := ResolvePath(path, domid, sn.limits)
	if err != nil {
		return err
	}
	w := &walk{
		segments: resolved.segments,
		op:       op,
		domid:    domid,
		limits:   sn.limits,
		nodes:    sn.nodes,
	}
	root := sn.root
	return w.run(&root)
}
