package gitcas

import (
	"github.com/aweris/gitcas/internal/object"
	"github.com/aweris/gitcas/internal/tree"
)

// ObjectType is the type tag of a stored object.
type ObjectType = object.Type

const (
	TypeBlob = object.TypeBlob
	TypeTree = object.TypeTree
)

// Tree entry modes.
const (
	ModeTree = tree.ModeTree
	ModeBlob = tree.ModeBlob
)

// Object is a decoded object. Payload is opaque bytes for both types.
type Object struct {
	Type    ObjectType
	Payload []byte
}

// Size returns the payload length, the value recorded in the envelope header.
func (o *Object) Size() int { return len(o.Payload) }

// TreeEntry is one immediate child of a tree.
type TreeEntry struct {
	Mode    string
	Name    string
	Address Address
}

// IsTree reports whether the entry is a subdirectory.
func (e TreeEntry) IsTree() bool { return e.Mode == ModeTree }

// Type returns the object type the entry mode implies.
func (e TreeEntry) Type() ObjectType {
	if e.IsTree() {
		return TypeTree
	}
	return TypeBlob
}

func toTreeEntries(entries []tree.Entry) []TreeEntry {
	out := make([]TreeEntry, len(entries))
	for i, e := range entries {
		out[i] = TreeEntry{Mode: e.Mode, Name: e.Name, Address: Address(e.Hash)}
	}
	return out
}

func fromTreeEntries(entries []TreeEntry) []tree.Entry {
	out := make([]tree.Entry, len(entries))
	for i, e := range entries {
		out[i] = tree.Entry{Mode: e.Mode, Name: e.Name, Hash: string(e.Address)}
	}
	return out
}

// EncodeTree serializes entries in the given order. Callers sort first;
// see SortTreeEntries.
func EncodeTree(entries []TreeEntry) ([]byte, error) {
	return tree.Encode(fromTreeEntries(entries))
}

// DecodeTree parses a full tree payload.
func DecodeTree(payload []byte) ([]TreeEntry, error) {
	entries, err := tree.Collect(payload)
	if err != nil {
		return nil, err
	}
	return toTreeEntries(entries), nil
}

// SortTreeEntries orders entries by name, byte-wise ascending.
func SortTreeEntries(entries []TreeEntry) {
	raw := fromTreeEntries(entries)
	tree.Sort(raw)
	copy(entries, toTreeEntries(raw))
}
