package store

import "fmt"

// terminalOp runs on the node at the end of the path. slot holds the
// walk's reference to that node; the operation may replace it with a copy,
// or set it to nil to unlink the node. inplace reports whether the node may
// be modified without copying.
type terminalOp func(w *walk, slot **Node, inplace bool) error

// walk carries the state of one operation from the root to its target.
type walk struct {
	segments      []string
	op            terminalOp
	domid         uint32
	limits        Limits
	mutating      bool
	createMissing bool

	// nodes is the node count the store will have if the walk succeeds.
	nodes uint
}

// run descends from *root. A mutating walk may replace *root with a copy;
// the caller installs it only when run returns nil.
func (w *walk) run(root **Node) error {
	return w.descend(root, 0, true)
}

// descend consumes one path segment per call.
//
// inplace is true while every node from the root down to *slot is owned
// exclusively by this walk's chain. It is passed by value: entering a
// shared node clears it for everything below, creating a node sets it for
// everything below, and nothing on the way back up ever looks at it.
func (w *walk) descend(slot **Node, depth int, inplace bool) error {
	cur := *slot

	if w.mutating && cur.Shared() {
		inplace = false
	}

	if depth == len(w.segments) {
		return w.op(w, slot, inplace)
	}

	name := w.segments[depth]
	childInplace := inplace

	var (
		child  *Node
		stolen bool
	)
	switch found := cur.Child(name); {
	case found != nil && w.mutating && inplace:
		// Take the parent's reference so the child is exclusively ours
		// below; it goes back in on every exit path.
		child = cur.detach(name)
		stolen = true
	case found != nil:
		child = found.Acquire()
	case w.createMissing:
		if w.domid != 0 && w.nodes >= w.limits.MaxDomainNodes {
			return ErrQuotaExceeded
		}
		w.nodes++
		child = NewNode()
		childInplace = true
	default:
		return ErrNotFound
	}

	err := w.descend(&child, depth+1, childInplace)
	if err != nil || !w.mutating {
		if stolen {
			cur.setChild(name, child)
		} else {
			child.Release()
		}
		return err
	}

	if !inplace {
		replacement := cur.Copy()
		cur.Release()
		cur = replacement
		*slot = cur
	}

	// A child that was stolen and comes back under the same name is not a
	// change to the child set. Anything newly added, or a child that is now
	// gone, is.
	if (cur.setChild(name, child) && !stolen) || child == nil {
		cur.gen++
	}
	return nil
}

// readContent appends the target's value to *out.
func readContent(out *[]byte) terminalOp {
	return func(_ *walk, slot **Node, _ bool) error {
		*out = append(*out, (*slot).content...)
		return nil
	}
}

// listChildren collects the target's sorted child names and generation.
func listChildren(gen *uint64, names *[]string) terminalOp {
	return func(_ *walk, slot **Node, _ bool) error {
		*names = (*slot).ChildNames()
		*gen = (*slot).gen
		return nil
	}
}

// writeContent replaces the target's value, copying the target first when it
// is shared. data must not be modified by anyone afterwards.
func writeContent(data []byte) terminalOp {
	return func(w *walk, slot **Node, inplace bool) error {
		if w.domid != 0 && len(data) > w.limits.MaxNodeSize {
			return ErrTooLarge
		}
		if !inplace {
			replacement := (*slot).Copy()
			(*slot).Release()
			*slot = replacement
		}
		(*slot).content = data
		return nil
	}
}

// removeSubtree unlinks the target and everything below it. The root
// cannot be removed.
func removeSubtree(w *walk, slot **Node, _ bool) error {
	if len(w.segments) == 0 {
		return fmt.Errorf("%w: cannot remove the root", ErrInvalidArgument)
	}
	target := *slot
	w.nodes -= target.subtreeSize()
	target.Release()
	*slot = nil
	return nil
}

// touch leaves the target as it is. Combined with createMissing it makes
// the missing components of a path.
func touch(*walk, **Node, bool) error {
	return nil
}
