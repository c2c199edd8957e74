// Package tree implements the binary tree object payload.
//
// Entry format, concatenated with no separators:
//
//	"<mode> <name>\x00" + 20 raw address bytes
package tree

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/aweris/gitcas/internal/object"
)

const (
	ModeTree = "40000"
	ModeBlob = "100644"
)

var (
	ErrTruncated    = errors.New("truncated tree")
	ErrInvalidEntry = errors.New("invalid tree entry")
)

// Entry is one line of a tree: a child object and the name it is stored under.
type Entry struct {
	Mode string
	Name string
	Hash string
}

// IsTree reports whether the entry points at a subtree.
func (e Entry) IsTree() bool {
	return e.Mode == ModeTree
}

// Sort orders entries by name, byte-wise ascending.
func Sort(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

// Encode concatenates entries in the order given. Callers sort first.
func Encode(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		if err := validate(e); err != nil {
			return nil, err
		}
		raw, _ := hex.DecodeString(e.Hash)

		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

func validate(e Entry) error {
	switch {
	case e.Mode == "" || strings.ContainsAny(e.Mode, " \x00"):
		return fmt.Errorf("%w: bad mode %q", ErrInvalidEntry, e.Mode)
	case e.Name == "" || strings.ContainsAny(e.Name, "/\x00"):
		return fmt.Errorf("%w: bad name %q", ErrInvalidEntry, e.Name)
	case !object.IsHash(e.Hash):
		return fmt.Errorf("%w: bad address %q for %s", ErrInvalidEntry, e.Hash, e.Name)
	}
	return nil
}

// Decode scans payload lazily. A malformed payload yields a single error
// after the last good entry and ends the sequence: ErrTruncated when the
// entry runs out of bytes, ErrInvalidEntry when it has an empty mode or a
// name Encode would refuse.
// The sequence may be ranged over any number of times.
func Decode(payload []byte) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		off := 0
		for off < len(payload) {
			e, n, err := decodeEntry(payload[off:])
			if err != nil {
				yield(Entry{}, fmt.Errorf("tree entry at offset %d: %w", off, err))
				return
			}
			off += n
			if !yield(e, nil) {
				return
			}
		}
	}
}

func decodeEntry(b []byte) (Entry, int, error) {
	sp := bytes.IndexByte(b, ' ')
	if sp == -1 {
		return Entry{}, 0, fmt.Errorf("%w: missing mode delimiter", ErrTruncated)
	}
	nul := bytes.IndexByte(b[sp+1:], 0)
	if nul == -1 {
		return Entry{}, 0, fmt.Errorf("%w: missing name terminator", ErrTruncated)
	}
	nul += sp + 1

	end := nul + 1 + object.HashSize
	if end > len(b) {
		return Entry{}, 0, fmt.Errorf("%w: need %d address bytes, have %d", ErrTruncated, object.HashSize, len(b)-nul-1)
	}

	e := Entry{
		Mode: string(b[:sp]),
		Name: string(b[sp+1 : nul]),
		Hash: hex.EncodeToString(b[nul+1 : end]),
	}
	if err := validate(e); err != nil {
		return Entry{}, 0, err
	}
	return e, end, nil
}

// Collect consumes Decode fully.
func Collect(payload []byte) ([]Entry, error) {
	var entries []Entry
	for e, err := range Decode(payload) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
