package gitcas

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aweris/gitcas/internal/tree"
)

// WriteTree stores every file and directory below dir and returns the
// address of the tree for dir. An empty dir means the work tree.
//
// The walk is depth-first and single-threaded. The metadata directory is
// skipped at every level. Symbolic links and special files abort the build
// with ErrUnsupportedFile. Objects already written before a failure stay in
// the store.
func (r *Repository) WriteTree(ctx context.Context, dir string) (Address, error) {
	if dir == "" {
		dir = r.workTree
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	addr, err := r.writeTree(ctx, root, root)
	if err != nil {
		return "", err
	}

	r.log.Debug("wrote tree", zap.String("dir", root), zap.Stringer("address", addr))
	return addr, nil
}

// writeTree computes the tree for dir. For directories, this recursively
// writes child trees and blobs first.
func (r *Repository) writeTree(ctx context.Context, root, dir string) (Address, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: read directory %s: %w", ErrIO, dir, err)
	}

	entries := make([]tree.Entry, 0, len(children))
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := child.Name()
		if name == MetadataDir {
			continue
		}

		path := filepath.Join(dir, name)
		if r.ignored(root, path, child.IsDir()) {
			continue
		}

		var (
			mode string
			addr Address
		)

		switch typ := child.Type(); {
		case typ.IsDir():
			mode = ModeTree
			addr, err = r.writeTree(ctx, root, path)
		case typ.IsRegular():
			mode = ModeBlob
			addr, err = r.writeBlob(ctx, path)
		default:
			err = fmt.Errorf("%w: %s (%s)", ErrUnsupportedFile, path, typ)
		}
		if err != nil {
			return "", err
		}

		entries = append(entries, tree.Entry{Mode: mode, Name: name, Hash: string(addr)})
	}

	// Tree identity depends on entry order, not on ReadDir order.
	tree.Sort(entries)

	payload, err := tree.Encode(entries)
	if err != nil {
		return "", fmt.Errorf("encode tree %s: %w", dir, err)
	}

	addr, err := r.Put(ctx, TypeTree, payload)
	if err != nil {
		return "", fmt.Errorf("store tree %s: %w", dir, err)
	}
	return addr, nil
}

func (r *Repository) writeBlob(ctx context.Context, path string) (Address, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}

	addr, err := r.Put(ctx, TypeBlob, data)
	if err != nil {
		return "", fmt.Errorf("store blob %s: %w", path, err)
	}
	return addr, nil
}

func (r *Repository) ignored(root, path string, isDir bool) bool {
	if r.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return r.ignore.MatchesPath(rel)
}
