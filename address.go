package gitcas

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aweris/gitcas/internal/object"
)

// Address identifies an object by the SHA-1 of its envelope, as 40
// lowercase hex characters.
type Address string

// ParseAddress validates s and returns it in canonical lowercase form.
func ParseAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !object.IsHash(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return Address(s), nil
}

// AddressFromBytes converts a raw 20-byte digest.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != object.HashSize {
		return "", fmt.Errorf("%w: %d raw bytes", ErrInvalidAddress, len(b))
	}
	return Address(hex.EncodeToString(b)), nil
}

func (a Address) String() string { return string(a) }
func (a Address) IsZero() bool  { return a == "" }
func (a Address) IsValid() bool { return object.IsHash(string(a)) }

// Bytes returns the raw digest, or nil if a is not valid.
func (a Address) Bytes() []byte {
	if !a.IsValid() {
		return nil
	}
	b, _ := hex.DecodeString(string(a))
	return b
}

// Short returns the first 7 characters, the way git abbreviates.
func (a Address) Short() string {
	if len(a) < 7 {
		return string(a)
	}
	return string(a[:7])
}

// ComputeAddress returns the address an object would be stored under,
// without storing it.
func ComputeAddress(t ObjectType, payload []byte) Address {
	return Address(object.Hash(object.Encode(t, payload)))
}

// BlobAddress is ComputeAddress for blobs.
func BlobAddress(data []byte) Address {
	return ComputeAddress(TypeBlob, data)
}
