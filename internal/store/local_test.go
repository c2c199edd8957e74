package store

import (
	"bytes"
	stdzlib "compress/zlib"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aweris/gitcas/internal/object"
)

const helloHash = "ce013625030ba8dba906f756967f9e9ca394464a"

func newTestStore(t *testing.T, cacheSize int, verify bool) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), LocalOptions{
		CacheSize:        cacheSize,
		CompressionLevel: zlib.DefaultCompression,
		VerifyReads:      verify,
		Logger:           zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return s
}

func inflate(t *testing.T, path string) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	r, err := stdzlib.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return data
}

func TestLocalStore_PutLayout(t *testing.T) {
	s := newTestStore(t, 0, false)
	ctx := context.Background()

	hash, err := s.Put(ctx, object.TypeBlob, []byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, helloHash, hash)

	path := filepath.Join(s.Root(), "ce", "013625030ba8dba906f756967f9e9ca394464a")
	assert.Equal(t, path, s.Path(hash))
	assert.Equal(t, []byte("blob 6\x00hello\n"), inflate(t, path))
}

func TestLocalStore_PutIdempotent(t *testing.T) {
	s := newTestStore(t, 0, false)
	ctx := context.Background()

	h1, err := s.Put(ctx, object.TypeBlob, []byte("same"))
	require.NoError(t, err)
	h2, err := s.Put(ctx, object.TypeBlob, []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// Same payload, different type, different address.
	h3, err := s.Put(ctx, object.TypeTree, nil)
	require.NoError(t, err)
	h4, err := s.Put(ctx, object.TypeBlob, nil)
	require.NoError(t, err)
	assert.NotEqual(t, h3, h4)
}

func TestLocalStore_RoundTrip(t *testing.T) {
	for _, cacheSize := range []int{0, 16} {
		s := newTestStore(t, cacheSize, true)
		ctx := context.Background()

		payloads := [][]byte{
			nil,
			[]byte("hello\n"),
			{0x00, 0xff, ' ', 0x00, '\n'},
			bytes.Repeat([]byte("gitcas"), 10000),
		}

		for _, p := range payloads {
			for _, typ := range []object.Type{object.TypeBlob, object.TypeTree} {
				hash, err := s.Put(ctx, typ, p)
				require.NoError(t, err)

				s.Purge()
				gotType, got, err := s.Get(ctx, hash)
				require.NoError(t, err)
				assert.Equal(t, typ, gotType)
				assert.True(t, bytes.Equal(p, got))

				// Second read may be served from cache.
				gotType, got, err = s.Get(ctx, hash)
				require.NoError(t, err)
				assert.Equal(t, typ, gotType)
				assert.True(t, bytes.Equal(p, got))
			}
		}
	}
}

func TestLocalStore_GetReturnsCopy(t *testing.T) {
	s := newTestStore(t, 4, false)
	ctx := context.Background()

	hash, err := s.Put(ctx, object.TypeBlob, []byte("immutable"))
	require.NoError(t, err)

	_, got, err := s.Get(ctx, hash)
	require.NoError(t, err)
	got[0] = 'X'

	_, again, err := s.Get(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), again)
}

func TestLocalStore_Errors(t *testing.T) {
	s := newTestStore(t, 0, true)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, _, err := s.Get(ctx, helloHash)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid address", func(t *testing.T) {
		_, _, err := s.Get(ctx, "ce01")
		require.ErrorIs(t, err, ErrInvalidAddress)
		_, err = s.Has(ctx, "../../etc/passwd")
		require.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := s.Put(ctx, object.Type("commit"), []byte("x"))
		require.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("not zlib", func(t *testing.T) {
		hash := "0000000000000000000000000000000000000001"
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Path(hash)), 0755))
		require.NoError(t, os.WriteFile(s.Path(hash), []byte("garbage"), 0644))

		_, _, err := s.Get(ctx, hash)
		require.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("bad envelope", func(t *testing.T) {
		hash := "0000000000000000000000000000000000000002"
		writeRaw(t, s, hash, []byte("blob 99\x00short"))

		_, _, err := s.Get(ctx, hash)
		require.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("hash mismatch", func(t *testing.T) {
		hash := "0000000000000000000000000000000000000003"
		writeRaw(t, s, hash, object.Encode(object.TypeBlob, []byte("hello\n")))

		_, _, err := s.Get(ctx, hash)
		require.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestLocalStore_LengthMismatchWithoutVerify(t *testing.T) {
	s := newTestStore(t, 0, false)
	hash := "0000000000000000000000000000000000000004"
	writeRaw(t, s, hash, []byte("blob 1\x00hello"))

	_, _, err := s.Get(context.Background(), hash)
	require.ErrorIs(t, err, ErrCorrupt)
	require.ErrorIs(t, err, object.ErrLengthMismatch)
}

func TestLocalStore_Has(t *testing.T) {
	s := newTestStore(t, 0, false)
	ctx := context.Background()

	ok, err := s.Has(ctx, helloHash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Put(ctx, object.TypeBlob, []byte("hello\n"))
	require.NoError(t, err)

	ok, err = s.Has(ctx, helloHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalStore_CachedObjectRemovedFromDisk(t *testing.T) {
	s := newTestStore(t, 16, false)
	ctx := context.Background()

	hash, err := s.Put(ctx, object.TypeBlob, []byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(s.Path(hash)))

	ok, err := s.Has(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = s.Get(ctx, hash)
	require.ErrorIs(t, err, ErrNotFound)

	// The stale entry is gone, so a second read still misses.
	_, _, err = s.Get(ctx, hash)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_VerifyReadsBypassesCache(t *testing.T) {
	s := newTestStore(t, 16, true)
	ctx := context.Background()

	hash, err := s.Put(ctx, object.TypeBlob, []byte("hello\n"))
	require.NoError(t, err)

	_, _, err = s.Get(ctx, hash)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.Path(hash), []byte("garbage"), 0644))

	_, _, err = s.Get(ctx, hash)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestLocalStore_Walk(t *testing.T) {
	s := newTestStore(t, 0, false)
	ctx := context.Background()

	want := map[string]bool{}
	for _, p := range []string{"a", "b", "c"} {
		hash, err := s.Put(ctx, object.TypeBlob, []byte(p))
		require.NoError(t, err)
		want[hash] = true
	}

	// Noise that is not a loose object.
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "pack"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "ce"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "ce", "tmp_obj"), nil, 0644))

	got := map[string]bool{}
	for hash, err := range s.Walk(ctx) {
		require.NoError(t, err)
		got[hash] = true
	}
	assert.Equal(t, want, got)
}

func TestNewLocalStore_MissingRoot(t *testing.T) {
	_, err := NewLocalStore(filepath.Join(t.TempDir(), "nope"), LocalOptions{CompressionLevel: zlib.DefaultCompression})
	require.ErrorIs(t, err, ErrIO)
}

func writeRaw(t *testing.T, s *LocalStore, hash string, envelope []byte) {
	t.Helper()
	compressed, err := s.compressor.Compress(envelope)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path(hash)), 0755))
	require.NoError(t, os.WriteFile(s.Path(hash), compressed, 0644))
}
