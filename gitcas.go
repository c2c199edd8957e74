package gitcas

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"github.com/aweris/gitcas/internal/store"
	"github.com/aweris/gitcas/internal/tree"
)

const initialHead = "ref: refs/heads/main\n"

// Repository is a work tree and its object store.
//
// Layout:
//
//	<workTree>/.git/
//	  HEAD     ("ref: refs/heads/main")
//	  refs/
//	  objects/
//	    ce/013625030ba8dba906f756967f9e9ca394464a
type Repository struct {
	workTree string
	gitDir   string
	objects  *store.LocalStore
	ignore   *gitignore.GitIgnore
	opts     *Options
	log      *zap.Logger
}

// Init creates the repository layout under dir if missing and opens it.
// Existing objects and HEAD are left untouched.
func Init(dir string, opts ...Option) (*Repository, error) {
	gitDir := filepath.Join(dir, MetadataDir)

	for _, d := range []string{filepath.Join(gitDir, "objects"), filepath.Join(gitDir, "refs")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %w", ErrIO, d, err)
		}
	}

	head := filepath.Join(gitDir, "HEAD")
	if _, err := os.Stat(head); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(head, []byte(initialHead), 0644); err != nil {
			return nil, fmt.Errorf("%w: write HEAD: %w", ErrIO, err)
		}
	}

	return Open(dir, opts...)
}

// Open opens an initialised repository rooted at dir.
func Open(dir string, opts ...Option) (*Repository, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	workTree, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	gitDir := filepath.Join(workTree, MetadataDir)
	objectsDir := filepath.Join(gitDir, "objects")

	info, err := os.Stat(objectsDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, workTree)
	case err != nil:
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, objectsDir, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotARepository, objectsDir)
	}

	objects, err := store.NewLocalStore(objectsDir, store.LocalOptions{
		CacheSize:        options.CacheSize,
		CompressionLevel: options.CompressionLevel,
		VerifyReads:      options.VerifyReads,
		Logger:           options.Logger.Named("store"),
	})
	if err != nil {
		return nil, err
	}

	r := &Repository{
		workTree: workTree,
		gitDir:   gitDir,
		objects:  objects,
		opts:     options,
		log:      options.Logger,
	}

	if options.IgnoreFile != "" {
		path := options.IgnoreFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(workTree, path)
		}
		r.ignore, err = gitignore.CompileIgnoreFile(path)
		if err != nil {
			return nil, fmt.Errorf("load ignore file %s: %w", path, err)
		}
	}

	return r, nil
}

func (r *Repository) WorkTree() string   { return r.workTree }
func (r *Repository) GitDir() string     { return r.gitDir }
func (r *Repository) ObjectsDir() string { return r.objects.Root() }
func (r *Repository) Store() Store       { return r.objects }

// ObjectPath returns where the object with address addr is stored.
func (r *Repository) ObjectPath(addr Address) string {
	return r.objects.Path(string(addr))
}

// Put stores a payload under type t and returns its address.
func (r *Repository) Put(ctx context.Context, t ObjectType, payload []byte) (Address, error) {
	hash, err := r.objects.Put(ctx, t, payload)
	if err != nil {
		return "", err
	}
	return Address(hash), nil
}

// Get reads an object.
func (r *Repository) Get(ctx context.Context, addr Address) (*Object, error) {
	t, payload, err := r.objects.Get(ctx, string(addr))
	if err != nil {
		return nil, err
	}
	return &Object{Type: t, Payload: payload}, nil
}

// Exists reports whether an object is stored, without reading it.
func (r *Repository) Exists(ctx context.Context, addr Address) (bool, error) {
	return r.objects.Has(ctx, string(addr))
}

// HashObject computes the blob address of the file at path. The blob is
// stored only when write is true.
func (r *Repository) HashObject(ctx context.Context, path string, write bool) (Address, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	if !write {
		return BlobAddress(data), nil
	}
	return r.Put(ctx, TypeBlob, data)
}

// ReadBlob reads a blob payload.
func (r *Repository) ReadBlob(ctx context.Context, addr Address) ([]byte, error) {
	obj, err := r.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	if obj.Type != TypeBlob {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotABlob, addr, obj.Type)
	}
	return obj.Payload, nil
}

// ReadTree reads and decodes a tree.
func (r *Repository) ReadTree(ctx context.Context, addr Address) ([]TreeEntry, error) {
	obj, err := r.Get(ctx, addr)
	if err != nil {
		return nil, err
	}
	if obj.Type != TypeTree {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotATree, addr, obj.Type)
	}

	entries, err := tree.Collect(obj.Payload)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", addr, err)
	}
	return toTreeEntries(entries), nil
}
