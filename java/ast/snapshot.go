package ast

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Snapshot returns a fingerprint of every node in the tree including
// positions, parents and slots. Two snapshots are equal only if the trees
// are structurally identical.
func Snapshot(t *Tree) string {
	h := sha256.New()
	var buf [4]byte
	put := func(v int) {
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		h.Write(buf[:])
	}
	put(len(t.nodes))
	put(int(t.Root))
	for i := range t.nodes {
		n := &t.nodes[i]
		put(int(n.Kind))
		put(int(n.Op))
		put(n.Start)
		put(n.End)
		put(int(n.Parent))
		put(int(n.Loc))
		h.Write([]byte(n.Text))
		put(len(n.slots))
		for _, s := range n.slots {
			put(int(s.Prop))
			put(int(s.ID))
		}
	}
	h.Write([]byte(t.Source))
	return hex.EncodeToString(h.Sum(nil))
}
