// Package diagnostics produces a canonical, deterministic snapshot of a
// built datum tree for machine consumption: a CBOR-encoded structural tree
// plus a BLAKE2b-256 digest, mirroring opal's core/planfmt CanonicalPlan
// and the Write/WriteContract two-track hash (content vs. structure).
package diagnostics

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/bafproject/baf/engine"
)

// Node is one entry in a canonical tree snapshot: offset, size, a type
// label, and (for container nodes) its children in canonical order.
type Node struct {
	Slot     string `cbor:"slot"`
	Type     string `cbor:"type"`
	Offset   int    `cbor:"offset"`
	Size     int    `cbor:"size"`
	Children []Node `cbor:"children,omitempty"`
}

// Tree is the top-level snapshot returned by Snapshot.
type Tree struct {
	Root Node `cbor:"root"`
}

// Snapshot walks root with get_items(use_defaults=true) semantics — the
// same traversal engine.Visualize uses — and produces a serializable Tree.
func Snapshot(root engine.Datum) (*Tree, error) {
	n, err := snapshotNode(root, "root")
	if err != nil {
		return nil, err
	}
	return &Tree{Root: n}, nil
}

func snapshotNode(d engine.Datum, slot string) (Node, error) {
	off, err := d.Offset()
	if err != nil && !engine.IsDependency(err) {
		return Node{}, err
	}
	sz, err := d.Size()
	if err != nil && !engine.IsDependency(err) {
		return Node{}, err
	}
	n := Node{Slot: slot, Type: engine.TypeLabel(d), Offset: off, Size: sz}

	c, ok := d.(engine.Container)
	if !ok {
		return n, nil
	}
	items, err := engine.ContainerItems(c)
	if err != nil {
		return n, err
	}
	for i, it := range items {
		childSlot := fmt.Sprintf("[%d]", i)
		if blk, ok := d.(*engine.Block); ok {
			childSlot = blk.FieldNameAt(i)
		}
		child, err := snapshotNode(it, childSlot)
		if err != nil {
			return Node{}, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// CBOR encodes tree deterministically: struct field order is fixed by
// declaration (cbor's default struct encoding), so two snapshots of
// identical data always produce identical bytes — the property
// property-1 determinism tests rely on.
func CBOR(tree *Tree) ([]byte, error) {
	return cbor.Marshal(tree)
}

// Digest returns the BLAKE2b-256 hash of the CBOR encoding of tree,
// analogous to planfmt.Write's digest of the serialized plan.
func Digest(tree *Tree) ([32]byte, error) {
	enc, err := CBOR(tree)
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(enc), nil
}

// ContentDigest hashes the built bytes of root directly — the "body" half
// of the teacher's target+body split, as opposed to Digest's structural
// hash of offsets/sizes/types.
func ContentDigest(root engine.Datum) ([32]byte, error) {
	b, err := root.Bytes()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(b), nil
}
