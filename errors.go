package gitcas

import (
	"errors"

	"github.com/aweris/gitcas/internal/object"
	"github.com/aweris/gitcas/internal/store"
	"github.com/aweris/gitcas/internal/tree"
)

var (
	ErrIO                = store.ErrIO
	ErrObjectNotFound    = store.ErrNotFound
	ErrCorruptObject     = store.ErrCorrupt
	ErrInvalidAddress    = store.ErrInvalidAddress
	ErrUnknownType       = store.ErrUnknownType
	ErrMalformedEnvelope = object.ErrMalformedEnvelope
	ErrInvalidLength     = object.ErrInvalidLength
	ErrLengthMismatch    = object.ErrLengthMismatch
	ErrTruncatedTree     = tree.ErrTruncated
	ErrInvalidTreeEntry  = tree.ErrInvalidEntry

	ErrNotATree        = errors.New("gitcas: not a tree")
	ErrNotABlob        = errors.New("gitcas: not a blob")
	ErrUnsupportedFile = errors.New("gitcas: unsupported file type")
	ErrNotARepository  = errors.New("gitcas: not a repository")
)
