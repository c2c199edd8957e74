// Package gitcas provides a git-compatible, content-addressable object store.
//
// Objects are blobs (file content) and trees (one directory level). Each is
// wrapped in a "<type> <len>\x00" envelope, addressed by the SHA-1 of that
// envelope, zlib-compressed, and written to .git/objects/<2 hex>/<38 hex>.
// Stock git can read every object gitcas writes.
//
// Basic usage:
//
//	repo, _ := gitcas.Init("myproject")
//
//	// Store and read a blob
//	addr, _ := repo.Put(ctx, gitcas.TypeBlob, []byte("hello\n"))
//	obj, _ := repo.Get(ctx, addr)
//	fmt.Println(addr, obj.Type, obj.Size()) // ce01362... blob 6
//
//	// Snapshot a directory
//	root, _ := repo.WriteTree(ctx, "")
//	entries, _ := repo.ReadTree(ctx, root)
//
//	// Browse a snapshot by path
//	data, _ := repo.Snapshot(root).ReadFile(ctx, "src/main.go")
//
//	// Check every stored object
//	report, _ := repo.Verify(ctx)
//	if !report.OK() { ... }
//
// Errors are sentinel values matched with errors.Is: ErrObjectNotFound,
// ErrCorruptObject, ErrTruncatedTree, ErrNotATree and friends.
package gitcas
