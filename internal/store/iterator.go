package store

import "errors"

// SkipSubtree may be returned by a VisitFunc to skip the children of the
// node it was called for.
var SkipSubtree = errors.New("skip subtree")

// VisitFunc is called for every node of a subtree, parents before children
// and siblings in name order.
type VisitFunc func(path string, n *Node) error

// Visit walks the subtree rooted at path. The nodes passed to fn belong to
// the live tree and must only be read, and only until fn returns.
func (s *Store) Visit(domid uint32, path string, fn VisitFunc) error {
	resolved, err := ResolvePath(path, domid, s.limits)
	if err != nil {
		return err
	}
	w := &walk{
		segments: resolved.segments,
		op: inspect(func(n *Node) error {
			return visitSubtree(resolved.String(), n, fn)
		}),
		domid:  domid,
		limits: s.limits,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	root := s.root
	return w.run(&root)
}

// inspect turns a read-only node callback into a terminal operation.
func inspect(fn func(n *Node) error) terminalOp {
	return func(_ *walk, slot **Node, _ bool) error {
		return fn(*slot)
	}
}

func visitSubtree(path string, n *Node, fn VisitFunc) error {
	if err := fn(path, n); err != nil {
		if errors.Is(err, SkipSubtree) {
			return nil
		}
		return err
	}
	prefix := path + "/"
	if path == "/" {
		prefix = "/"
	}
	for _, name := range n.ChildNames() {
		if err := visitSubtree(prefix+name, n.children[name], fn); err != nil {
			return err
		}
	}
	return nil
}
