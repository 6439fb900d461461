package green

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/viletech/doomfront/internal/syntax"
)

const (
	// UNCACHEABLE is the structural hash of an element that was not interned.
	// A node with an UNCACHEABLE child is itself UNCACHEABLE.
	UNCACHEABLE uint64 = 0

	DEFAULT_MAX_INTERNED_CHILDREN = 3
)

func tokenHash(kind syntax.Kind, text string) uint64 {
	var (
		d   xxhash.Digest
		buf [2]byte
	)
	d.Reset()
	binary.LittleEndian.PutUint16(buf[:], uint16(kind))
	d.Write(buf[:])
	d.WriteString(text)
	return nonSentinel(d.Sum64())
}

// nodeHash combines the hashes of the children, it returns false if one of them is UNCACHEABLE.
func nodeHash(kind syntax.Kind, children []Child) (uint64, bool) {
	var (
		d   xxhash.Digest
		buf [8]byte
	)
	d.Reset()
	binary.LittleEndian.PutUint16(buf[:2], uint16(kind))
	d.Write(buf[:2])

	for _, child := range children {
		if child.Hash == UNCACHEABLE {
			return UNCACHEABLE, false
		}
		binary.LittleEndian.PutUint64(buf[:], child.Hash)
		d.Write(buf[:])
	}
	return nonSentinel(d.Sum64()), true
}

func nonSentinel(h uint64) uint64 {
	if h == UNCACHEABLE {
		return 1
	}
	return h
}

// sameNode reports whether node has the given kind and exactly the given children (by identity).
// Identity comparison is enough because the children of an interned node are always interned.
func sameNode(node *Node, kind syntax.Kind, children []Child) bool {
	if node.kind != kind || len(node.children) != len(children) {
		return false
	}
	for i, child := range children {
		if node.children[i] != child.Element {
			return false
		}
	}
	return true
}
