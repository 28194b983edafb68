package store

import (
	"sort"
	"sync/atomic"
)

// Node is one element of the store tree. A node reachable from more than one
// owner (refs > 1) is immutable: it may be read, or replaced wholesale by a
// copy, but never modified in place.
type Node struct {
	// refs counts parent slots plus transient walk-local holds.
	refs atomic.Int32

	// content is shared between copies and never modified after it is set.
	// nil means the node carries no value.
	content []byte

	// children maps a path segment to the owned child node.
	children map[string]*Node

	// gen is bumped whenever the set of direct children changes.
	gen uint64
}

// NewNode returns an empty node holding a single reference.
func NewNode() *Node {
	n := &Node{}
	n.refs.Store(1)
	return n
}

// Acquire takes an additional reference and returns the same node.
func (n *Node) Acquire() *Node {
	if n.refs.Add(1) <= 1 {
		panic("store: acquire of a released node")
	}
	return n
}

// Release drops one reference. The last release releases the children.
func (n *Node) Release() {
	if n == nil {
		return
	}
	refs := n.refs.Add(-1)
	if refs > 0 {
		return
	}
	if refs < 0 {
		panic("store: node released more than once")
	}
	for name, child := range n.children {
		delete(n.children, name)
		child.Release()
	}
	n.children = nil
	n.content = nil
}

// Copy returns a private copy of the node. Children and content are shared,
// not duplicated: every child gains one reference.
func (n *Node) Copy() *Node {
	c := NewNode()
	c.gen = n.gen
	c.content = n.content
	if len(n.children) > 0 {
		c.children = make(map[string]*Node, len(n.children))
		for name, child := range n.children {
			c.children[name] = child.Acquire()
		}
	}
	return c
}

// Refs returns the current reference count.
func (n *Node) Refs() int32 {
	return n.refs.Load()
}

// Shared reports whether the node has more than one owner.
func (n *Node) Shared() bool {
	return n.refs.Load() > 1
}

// Content returns the node value. The returned slice must not be modified.
func (n *Node) Content() []byte {
	return n.content
}

// Generation returns the child-set generation counter.
func (n *Node) Generation() uint64 {
	return n.gen
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the named child without taking a reference, or nil.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// ChildNames returns the names of the direct children in sorted order.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// detach moves the named child out of the children map. The reference held
// by the map passes to the caller.
func (n *Node) detach(name string) *Node {
	child, ok := n.children[name]
	if !ok {
		return nil
	}
	delete(n.children, name)
	return child
}

// setChild links child under name, taking over the caller's reference, or
// unlinks name when child is nil. An entry that gets replaced or unlinked is
// released. It reports whether a new name was added or an existing one
// removed.
func (n *Node) setChild(name string, child *Node) bool {
	if child == nil {
		old, ok := n.children[name]
		if !ok {
			return false
		}
		delete(n.children, name)
		old.Release()
		return true
	}

	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	old, ok := n.children[name]
	n.children[name] = child
	if ok {
		old.Release()
	}
	return !ok
}

// subtreeSize counts the node and all of its descendants.
func (n *Node) subtreeSize() uint {
	count := uint(1)
	for _, child := range n.children {
		count += child.subtreeSize()
	}
	return count
}
