package store

import (
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/zeebo/blake3"
)

// Digest is a BLAKE3 hash over a subtree: values, child names and the
// digests of the children. Generations are not included, so two trees with
// the same contents have the same digest however they were built.
type Digest [32]byte

// String returns the digest in hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// digestKey separates subtree digests from any other BLAKE3 use. ASCII
// "xenstore.subtree", zero padded.
var digestKey = [32]byte{
	'x', 'e', 'n', 's', 't', 'o', 'r', 'e', '.', 's', 'u', 'b', 't', 'r', 'e', 'e',
}

// Digest returns the digest of the subtree at path.
func (s *Store) Digest(domid uint32, path string) (Digest, error) {
	var d Digest
	resolved, err := ResolvePath(path, domid, s.limits)
	if err != nil {
		return d, err
	}
	w := &walk{
		segments: resolved.segments,
		op: inspect(func(n *Node) error {
			d = digestNode(n)
			return nil
		}),
		domid:  domid,
		limits: s.limits,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	root := s.root
	return d, w.run(&root)
}

// Digest returns the digest of the subtree at path as of the snapshot.
func (sn *Snapshot) Digest(domid uint32, path string) (Digest, error) {
	var d Digest
	err := sn.exec(domid, path, inspect(func(n *Node) error {
		d = digestNode(n)
		return nil
	}))
	return d, err
}

// Digest returns the digest the subtree would have once imported.
func (d *Document) Digest() Digest {
	names := make([]string, 0, len(d.Children))
	for name := range d.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return hashSubtree(d.Content, names, func(name string) Digest {
		return d.Children[name].Digest()
	})
}

func digestNode(n *Node) Digest {
	return hashSubtree(n.content, n.ChildNames(), func(name string) Digest {
		return digestNode(n.children[name])
	})
}

// hashSubtree hashes a length-prefixed value followed by each child name,
// in the given order, with that child's digest.
func hashSubtree(content []byte, names []string, child func(string) Digest) Digest {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("store: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(content)))
	hasher.Write(length[:])
	hasher.Write(content)

	for _, name := range names {
		binary.BigEndian.PutUint64(length[:], uint64(len(name)))
		hasher.Write(length[:])
		hasher.Write([]byte(name))
		sum := child(name)
		hasher.Write(sum[:])
	}

	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d
}
