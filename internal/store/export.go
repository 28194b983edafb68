package store

import (
	"bytes"
	"fmt"
	"time"
)

// Document is a detached, plain-value copy of a subtree.
type Document struct {
	Content    []byte               `cbor:"1,keyasint,omitempty"`
	Generation uint64               `cbor:"2,keyasint,omitempty"`
	Children   map[string]*Document `cbor:"3,keyasint,omitempty"`
}

// Count returns the number of nodes in the document.
func (d *Document) Count() uint {
	count := uint(1)
	for _, child := range d.Children {
		count += child.Count()
	}
	return count
}

// Validate checks that every child is present and that every child name is
// a single path component.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidArgument)
	}
	return d.validate("")
}

func (d *Document) validate(path string) error {
	for name, child := range d.Children {
		if name == "" {
			return fmt.Errorf("%w: empty child name under %s", ErrInvalidArgument, path)
		}
		for i := 0; i < len(name); i++ {
			if name[i] == '/' || !validPathChar(name[i]) {
				return fmt.Errorf("%w: child name %q under %s", ErrInvalidArgument, name, path)
			}
		}
		if child == nil {
			return fmt.Errorf("%w: missing node %s/%s", ErrInvalidArgument, path, name)
		}
		if err := child.validate(path + "/" + name); err != nil {
			return err
		}
	}
	return nil
}

// Export copies out the subtree at path.
func (s *Store) Export(domid uint32, path string) (*Document, error) {
	var doc *Document
	resolved, err := ResolvePath(path, domid, s.limits)
	if err != nil {
		return nil, err
	}
	w := &walk{
		segments: resolved.segments,
		op: inspect(func(n *Node) error {
			doc = exportNode(n)
			return nil
		}),
		domid:  domid,
		limits: s.limits,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	root := s.root
	if err := w.run(&root); err != nil {
		return nil, err
	}
	return doc, nil
}

// ExportAll copies out the whole tree, root included.
func (s *Store) ExportAll() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return exportNode(s.root)
}

// Export copies out the subtree at path as of the snapshot.
func (sn *Snapshot) Export(domid uint32, path string) (*Document, error) {
	var doc *Document
	err := sn.exec(domid, path, inspect(func(n *Node) error {
		doc = exportNode(n)
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ExportAll copies out the whole tree as of the snapshot.
func (sn *Snapshot) ExportAll() (*Document, error) {
	if sn.closed.Load() {
		return nil, ErrSnapshotClosed
	}
	return exportNode(sn.root), nil
}

// Import replaces the whole tree with doc. Only the privileged domain may
// import; limits on value sizes and node counts do not apply to it.
// Snapshots taken earlier keep the tree they captured.
func (s *Store) Import(domid uint32, doc *Document) error {
	start := time.Now()
	err := s.importDocument(domid, doc)
	s.finish(OpImport, domid, "/", err, start)
	return err
}

func (s *Store) importDocument(domid uint32, doc *Document) error {
	if domid != 0 {
		return ErrPermission
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	root := importNode(doc)
	count := doc.Count()

	s.mu.Lock()
	old := s.root
	s.root = root
	s.nodes = count
	s.mu.Unlock()

	old.Release()
	return nil
}

func exportNode(n *Node) *Document {
	doc := &Document{
		Content:    bytes.Clone(n.content),
		Generation: n.gen,
	}
	if len(n.children) > 0 {
		doc.Children = make(map[string]*Document, len(n.children))
		for name, child := range n.children {
			doc.Children[name] = exportNode(child)
		}
	}
	return doc
}

func importNode(doc *Document) *Node {
	n := NewNode()
	n.content = bytes.Clone(doc.Content)
	n.gen = doc.Generation
	for name, child := range doc.Children {
		n.setChild(name, importNode(child))
	}
	return n
}
