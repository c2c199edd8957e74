// Package object implements the typed, length-prefixed envelope that wraps
// every stored payload.
//
// Envelope format (git loose object, before compression):
//
//	"<type> <len>\x00<payload>"
//
// The address of an object is the SHA-1 of the whole envelope.
package object

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

// Type is the envelope type tag.
type Type string

const (
	TypeBlob Type = "blob"
	TypeTree Type = "tree"
)

// HashSize is the size of a raw object address in bytes.
const HashSize = sha1.Size

var (
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrInvalidLength     = errors.New("invalid envelope length")
	ErrLengthMismatch    = errors.New("envelope length mismatch")
)

// Valid reports whether t is a type the store knows how to handle.
func (t Type) Valid() bool {
	return t == TypeBlob || t == TypeTree
}

func (t Type) String() string { return string(t) }

// Encode builds the envelope for payload.
func Encode(t Type, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", t, len(payload))
	buf := make([]byte, len(header)+len(payload))
	copy(buf, header)
	copy(buf[len(header):], payload)
	return buf
}

// Decode splits an envelope into its type, declared length and payload.
// The returned payload aliases envelope.
func Decode(envelope []byte) (Type, int, []byte, error) {
	nul := bytes.IndexByte(envelope, 0)
	if nul == -1 {
		return "", 0, nil, fmt.Errorf("%w: missing null terminator", ErrMalformedEnvelope)
	}

	header := envelope[:nul]
	payload := envelope[nul+1:]

	sp := bytes.IndexByte(header, ' ')
	if sp == -1 {
		return "", 0, nil, fmt.Errorf("%w: missing space in header %q", ErrMalformedEnvelope, header)
	}

	t := Type(header[:sp])
	size, err := strconv.ParseUint(string(header[sp+1:]), 10, 63)
	if err != nil {
		return "", 0, nil, fmt.Errorf("%w: %q", ErrInvalidLength, header[sp+1:])
	}

	if int(size) != len(payload) {
		return "", 0, nil, fmt.Errorf("%w: header says %d, payload has %d bytes", ErrLengthMismatch, size, len(payload))
	}

	return t, int(size), payload, nil
}

// Hash returns the hex address of an envelope.
func Hash(envelope []byte) string {
	h := sha1.Sum(envelope)
	return hex.EncodeToString(h[:])
}

// IsHash reports whether s is a canonical address: 40 lowercase hex chars.
func IsHash(s string) bool {
	if len(s) != 2*HashSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
