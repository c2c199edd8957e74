package gitcas

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// Snapshot is a read-only view of a stored tree. Paths are slash separated
// and relative to the root tree.
type Snapshot struct {
	root Address
	repo *Repository

	cache map[Address][]TreeEntry
	mu    sync.RWMutex
}

// Snapshot returns a view of the tree at root. The tree is read lazily.
func (r *Repository) Snapshot(root Address) *Snapshot {
	return &Snapshot{
		root:  root,
		repo:  r,
		cache: make(map[Address][]TreeEntry),
	}
}

// Root returns the address of the root tree.
func (s *Snapshot) Root() Address {
	return s.root
}

// Lookup returns the entry at name. The root itself is reported as a tree
// entry named ".".
func (s *Snapshot) Lookup(ctx context.Context, name string) (TreeEntry, error) {
	name, err := cleanSnapshotPath(name)
	if err != nil {
		return TreeEntry{}, err
	}

	current := TreeEntry{Mode: ModeTree, Name: ".", Address: s.root}
	if name == "." {
		return current, nil
	}

	for _, part := range strings.Split(name, "/") {
		if !current.IsTree() {
			return TreeEntry{}, &fs.PathError{Op: "lookup", Path: name, Err: fs.ErrNotExist}
		}

		entries, err := s.loadTree(ctx, current.Address)
		if err != nil {
			return TreeEntry{}, err
		}

		child, ok := findEntry(entries, part)
		if !ok {
			return TreeEntry{}, &fs.PathError{Op: "lookup", Path: name, Err: fs.ErrNotExist}
		}
		current = child
	}

	return current, nil
}

// ReadFile returns the content of the blob at name.
func (s *Snapshot) ReadFile(ctx context.Context, name string) ([]byte, error) {
	entry, err := s.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if entry.IsTree() {
		return nil, fmt.Errorf("%s: is a directory", name)
	}
	return s.repo.ReadBlob(ctx, entry.Address)
}

// ReadDir returns the entries of the tree at name, sorted by name.
func (s *Snapshot) ReadDir(ctx context.Context, name string) ([]TreeEntry, error) {
	entry, err := s.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if !entry.IsTree() {
		return nil, fmt.Errorf("%s: %w", name, ErrNotATree)
	}

	entries, err := s.loadTree(ctx, entry.Address)
	if err != nil {
		return nil, err
	}
	return append([]TreeEntry(nil), entries...), nil
}

// Walk visits every entry below the root in depth-first, name order.
// Returning fs.SkipDir from fn for a tree entry skips its children; for a
// blob entry it skips the remaining entries of the tree holding it.
func (s *Snapshot) Walk(ctx context.Context, fn func(p string, e TreeEntry) error) error {
	return s.walk(ctx, "", s.root, fn)
}

func (s *Snapshot) walk(ctx context.Context, prefix string, addr Address, fn func(string, TreeEntry) error) error {
	entries, err := s.loadTree(ctx, addr)
	if err != nil {
		return err
	}

	for _, e := range entries {
		p := path.Join(prefix, e.Name)
		if err := fn(p, e); err != nil {
			if errors.Is(err, fs.SkipDir) {
				if e.IsTree() {
					continue
				}
				// On a blob, skip the rest of the containing tree.
				return nil
			}
			return err
		}
		if e.IsTree() {
			if err := s.walk(ctx, p, e.Address, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadTree loads a tree by address (with caching).
func (s *Snapshot) loadTree(ctx context.Context, addr Address) ([]TreeEntry, error) {
	s.mu.RLock()
	if entries, ok := s.cache[addr]; ok {
		s.mu.RUnlock()
		return entries, nil
	}
	s.mu.RUnlock()

	entries, err := s.repo.ReadTree(ctx, addr)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[addr] = entries
	s.mu.Unlock()

	return entries, nil
}

func findEntry(entries []TreeEntry, name string) (TreeEntry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

func cleanSnapshotPath(name string) (string, error) {
	name = path.Clean("/" + name)
	if name == "/" {
		return ".", nil
	}
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: "lookup", Path: name, Err: fs.ErrInvalid}
	}
	return name, nil
}
