// Package store implements the in-memory data plane of a XenStore-style
// configuration store.
//
// # Overview
//
// Guests ("domains") and the privileged host exchange small values addressed
// by slash-separated paths. The store keeps them in a tree of reference
// counted nodes that is shared copy-on-write between the live tree and any
// snapshots taken from it:
//
//	/
//	 └─ local
//	     └─ domain
//	         ├─ 0
//	         │   └─ name        → "Domain-0"
//	         └─ 7
//	             ├─ name        → "guest"
//	             └─ device
//	                 └─ vif
//
// # Operations
//
// Create a store and use the facade operations:
//
//	s := store.New(store.DefaultOptions())
//
//	// Absolute path, privileged caller
//	err := s.Write(0, "/local/domain/7/name", []byte("guest"))
//
//	// Relative paths resolve under /local/domain/<domid>/
//	value, err := s.Read(7, "name")
//
//	// Child names (sorted) plus the directory generation
//	gen, names, err := s.Directory(0, "/local/domain")
//
//	// Recursive delete
//	err = s.Remove(0, "/local/domain/7")
//
// # Copy-on-Write
//
// Every operation is one walk from the root to the target node. A mutating
// walk steals each exclusively owned child out of its parent on the way
// down and puts it (or its replacement) back on the way up. As soon as the
// walk enters a node whose reference count is above one, everything below
// is copied instead of modified in place. Structural changes are linked in
// only on the successful return path, so a failing walk leaves the tree as
// it was.
//
// A Snapshot holds its own reference to the root it was taken from:
//
//	snap := s.Snapshot()
//	defer snap.Close()
//
//	_ = s.Write(0, "/tool/x", []byte("new"))
//	old, _ := snap.Read(0, "/tool/x") // still the old value
//
// # Limits
//
// Non-privileged callers (domid != 0) are bound by Limits.MaxNodeSize for
// values and Limits.MaxDomainNodes for the total number of nodes in the
// store. Path length limits apply to everybody.
package store
