// Package store implements the loose object store.
//
// Objects live under a single objects root, one zlib-compressed envelope
// per file, sharded git-style by the first two hex characters of the
// address:
//
//	objects/
//	  ce/013625030ba8dba906f756967f9e9ca394464a
//
// The store is addressed by content only. It never deletes or rewrites an
// object with different bytes.
package store

import (
	"context"
	"errors"
	"iter"

	"github.com/aweris/gitcas/internal/object"
)

var (
	ErrNotFound       = errors.New("object not found")
	ErrCorrupt        = errors.New("corrupt object")
	ErrIO             = errors.New("object store I/O failure")
	ErrInvalidAddress = errors.New("invalid object address")
	ErrUnknownType    = errors.New("unknown object type")
)

// Store handles local object storage.
type Store interface {
	// Put encodes, hashes and writes an object and returns its address.
	Put(ctx context.Context, t object.Type, payload []byte) (hash string, err error)

	// Get reads and decodes an object.
	Get(ctx context.Context, hash string) (object.Type, []byte, error)

	// Has checks if an object exists without reading it.
	Has(ctx context.Context, hash string) (bool, error)

	// Walk enumerates every stored address.
	Walk(ctx context.Context) iter.Seq2[string, error]
}
