package compression

import (
	"bytes"
	stdzlib "compress/zlib"
	"io"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressor_RoundTrip(t *testing.T) {
	c, err := NewCompressor(zlib.DefaultCompression)
	require.NoError(t, err)

	for _, data := range [][]byte{
		nil,
		[]byte("blob 6\x00hello\n"),
		bytes.Repeat([]byte{0, 1, 2, 0xff}, 4096),
	} {
		compressed, err := c.Compress(data)
		require.NoError(t, err)

		got, err := c.Decompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, len(data), len(got))
		assert.True(t, bytes.Equal(data, got))
	}
}

// Loose objects must stay readable by any zlib implementation.
func TestCompressor_StdlibCompatible(t *testing.T) {
	c, err := NewCompressor(zlib.DefaultCompression)
	require.NoError(t, err)

	compressed, err := c.Compress([]byte("blob 6\x00hello\n"))
	require.NoError(t, err)

	r, err := stdzlib.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob 6\x00hello\n"), got)
}

func TestCompressor_DecompressGarbage(t *testing.T) {
	c, err := NewCompressor(zlib.BestSpeed)
	require.NoError(t, err)

	_, err = c.Decompress([]byte("definitely not zlib"))
	assert.Error(t, err)
}

func TestNewCompressor_InvalidLevel(t *testing.T) {
	_, err := NewCompressor(42)
	assert.Error(t, err)

	c, err := NewCompressor(zlib.BestCompression)
	require.NoError(t, err)
	assert.Equal(t, zlib.BestCompression, c.Level())
}
