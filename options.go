package gitcas

import (
	"runtime"

	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"
)

// MetadataDir is the repository metadata directory. It is never part of a tree.
const MetadataDir = ".git"

// DefaultCacheSize is the number of decoded objects kept in memory.
const DefaultCacheSize = 1024

// Options configures a Repository.
type Options struct {
	Logger           *zap.Logger
	CacheSize        int
	CompressionLevel int
	VerifyReads      bool
	Concurrency      int
	IgnoreFile       string
}

// Option is a functional option for configuring Init and Open.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Logger:           zap.NewNop(),
		CacheSize:        DefaultCacheSize,
		CompressionLevel: zlib.DefaultCompression,
		Concurrency:      runtime.GOMAXPROCS(0),
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

// WithCacheSize sets how many decoded objects are cached. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.CacheSize = n
		}
	}
}

// WithCompressionLevel sets the zlib level for new objects.
func WithCompressionLevel(level int) Option {
	return func(o *Options) { o.CompressionLevel = level }
}

// WithVerifyReads re-hashes objects on every read from disk.
func WithVerifyReads(verify bool) Option {
	return func(o *Options) { o.VerifyReads = verify }
}

// WithConcurrency sets the number of parallel workers used by Verify.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithIgnoreFile makes WriteTree skip paths matched by a gitignore-style file.
// Relative paths are resolved against the work tree.
func WithIgnoreFile(path string) Option {
	return func(o *Options) { o.IgnoreFile = path }
}
