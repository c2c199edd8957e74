package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aweris/gitcas/internal/compression"
	"github.com/aweris/gitcas/internal/object"
)

// LocalStore implements Store using the local filesystem.
type LocalStore struct {
	root        string
	cache       Cache
	compressor  *compression.Compressor
	verifyReads bool
	log         *zap.Logger
}

// LocalOptions configures a LocalStore.
type LocalOptions struct {
	// CacheSize is the number of decoded objects kept in memory. Zero disables the cache.
	CacheSize int
	// CompressionLevel is the zlib level used for new objects.
	CompressionLevel int
	// VerifyReads re-hashes every object read from disk.
	VerifyReads bool
	Logger      *zap.Logger
}

// NewLocalStore opens the objects directory at root. The directory must exist.
func NewLocalStore(root string, opts LocalOptions) (*LocalStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: open objects root: %w", ErrIO, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: objects root %s is not a directory", ErrIO, root)
	}

	compressor, err := compression.NewCompressor(opts.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}

	var cache Cache = nopCache{}
	if opts.CacheSize > 0 {
		lruCache, err := NewLRUCache(opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache: %w", err)
		}
		cache = lruCache
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &LocalStore{
		root:        root,
		cache:       cache,
		compressor:  compressor,
		verifyReads: opts.VerifyReads,
		log:         log,
	}, nil
}

// Root returns the objects directory.
func (s *LocalStore) Root() string {
	return s.root
}

// Put stores an object and returns its hash. An existing file at the same
// address is overwritten; content addressing guarantees identical bytes.
func (s *LocalStore) Put(ctx context.Context, t object.Type, payload []byte) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	// 1. Envelope and address
	envelope := object.Encode(t, payload)
	hash := object.Hash(envelope)

	compressed, err := s.compressor.Compress(envelope)
	if err != nil {
		return "", fmt.Errorf("failed to compress object %s: %w", hash, err)
	}

	// 2. Write to disk
	path := s.Path(hash)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("%w: create shard directory: %w", ErrIO, err)
	}
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return "", fmt.Errorf("%w: write object %s: %w", ErrIO, hash, err)
	}

	// 3. Cache in memory
	s.cache.Add(hash, CachedObject{Type: t, Payload: bytes.Clone(payload)})

	s.log.Debug("stored object",
		zap.String("address", hash),
		zap.Stringer("type", t),
		zap.Int("size", len(payload)),
		zap.Int("compressed", len(compressed)))

	return hash, nil
}

// Get retrieves an object by hash.
func (s *LocalStore) Get(ctx context.Context, hash string) (object.Type, []byte, error) {
	if !object.IsHash(hash) {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidAddress, hash)
	}

	// 1. Check memory cache. A hit still needs the file on disk; with
	// VerifyReads every read goes to disk.
	if obj, ok := s.cache.Get(hash); ok && !s.verifyReads {
		if err := s.stat(hash); err != nil {
			s.cache.Remove(hash)
			return "", nil, err
		}
		return obj.Type, bytes.Clone(obj.Payload), nil
	}

	// 2. Read from disk
	envelope, err := s.ReadEnvelope(ctx, hash)
	if err != nil {
		return "", nil, err
	}

	if s.verifyReads {
		if got := object.Hash(envelope); got != hash {
			return "", nil, fmt.Errorf("%w: %s: content hashes to %s", ErrCorrupt, hash, got)
		}
	}

	t, _, payload, err := object.Decode(envelope)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, hash, err)
	}
	if !t.Valid() {
		return "", nil, fmt.Errorf("%w: %s: %w %q", ErrCorrupt, hash, ErrUnknownType, t)
	}

	// 3. Cache and return
	s.cache.Add(hash, CachedObject{Type: t, Payload: payload})
	return t, bytes.Clone(payload), nil
}

// ReadEnvelope returns the decompressed, undecoded bytes of an object,
// bypassing the cache.
func (s *LocalStore) ReadEnvelope(ctx context.Context, hash string) ([]byte, error) {
	if !object.IsHash(hash) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, hash)
	}

	compressed, err := os.ReadFile(s.Path(hash))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
		}
		return nil, fmt.Errorf("%w: read object %s: %w", ErrIO, hash, err)
	}

	envelope, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decompress: %w", ErrCorrupt, hash, err)
	}
	return envelope, nil
}

// Has checks if an object exists.
func (s *LocalStore) Has(ctx context.Context, hash string) (bool, error) {
	if !object.IsHash(hash) {
		return false, fmt.Errorf("%w: %q", ErrInvalidAddress, hash)
	}

	err := s.stat(hash)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *LocalStore) stat(hash string) error {
	_, err := os.Stat(s.Path(hash))
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	return fmt.Errorf("%w: stat object %s: %w", ErrIO, hash, err)
}

// Walk yields every address found under the objects root. Entries that do
// not look like loose objects (pack/, info/, temp files) are skipped.
func (s *LocalStore) Walk(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		shards, err := os.ReadDir(s.root)
		if err != nil {
			yield("", fmt.Errorf("%w: list objects root: %w", ErrIO, err))
			return
		}

		for _, shard := range shards {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !shard.IsDir() || len(shard.Name()) != 2 {
				continue
			}

			files, err := os.ReadDir(filepath.Join(s.root, shard.Name()))
			if err != nil {
				if !yield("", fmt.Errorf("%w: list shard %s: %w", ErrIO, shard.Name(), err)) {
					return
				}
				continue
			}

			for _, f := range files {
				hash := shard.Name() + f.Name()
				if f.IsDir() || !object.IsHash(hash) {
					continue
				}
				if !yield(hash, nil) {
					return
				}
			}
		}
	}
}

// Purge empties the in-memory cache.
func (s *LocalStore) Purge() {
	s.cache.Purge()
}

// Path returns the filesystem path for an object hash.
// Git-style sharding: objects/ab/cd123...
func (s *LocalStore) Path(hash string) string {
	if len(hash) < 2 {
		return filepath.Join(s.root, hash)
	}
	return filepath.Join(s.root, hash[:2], hash[2:])
}
