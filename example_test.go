package gitcas_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aweris/gitcas"
)

func Example() {
	dir, _ := os.MkdirTemp("", "gitcas-example")
	defer os.RemoveAll(dir)

	ctx := context.Background()
	repo, err := gitcas.Init(dir)
	if err != nil {
		panic(err)
	}

	addr, _ := repo.Put(ctx, gitcas.TypeBlob, []byte("hello\n"))
	obj, _ := repo.Get(ctx, addr)
	fmt.Println(addr, obj.Type, obj.Size())

	rel, _ := filepath.Rel(dir, repo.ObjectPath(addr))
	fmt.Println(filepath.ToSlash(rel))

	// Output:
	// ce013625030ba8dba906f756967f9e9ca394464a blob 6
	// .git/objects/ce/013625030ba8dba906f756967f9e9ca394464a
}

func ExampleRepository_WriteTree() {
	dir, _ := os.MkdirTemp("", "gitcas-example")
	defer os.RemoveAll(dir)

	_ = os.MkdirAll(filepath.Join(dir, "sub"), 0755)
	_ = os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello\n"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "z.txt"), []byte("world\n"), 0644)
	_ = os.WriteFile(filepath.Join(dir, "sub", "c.txt"), []byte("world\n"), 0644)

	ctx := context.Background()
	repo, _ := gitcas.Init(dir)

	root, err := repo.WriteTree(ctx, "")
	if err != nil {
		panic(err)
	}
	fmt.Println(root)

	entries, _ := repo.ReadTree(ctx, root)
	for _, e := range entries {
		fmt.Printf("%s %s %s\t%s\n", e.Mode, e.Type(), e.Address, e.Name)
	}

	// Output:
	// 7886f01464154250bd356f5cce6aa0f0ae28ca67
	// 100644 blob ce013625030ba8dba906f756967f9e9ca394464a	a.txt
	// 40000 tree adb475501921ae1a6a58ce9ba916f7c3dcfbe9b8	sub
	// 100644 blob cc628ccd10742baea8241c5924df992b5c019f71	z.txt
}

func ExampleSnapshot_ReadFile() {
	dir, _ := os.MkdirTemp("", "gitcas-example")
	defer os.RemoveAll(dir)

	_ = os.MkdirAll(filepath.Join(dir, "docs"), 0755)
	_ = os.WriteFile(filepath.Join(dir, "docs", "notes.md"), []byte("# notes\n"), 0644)

	ctx := context.Background()
	repo, _ := gitcas.Init(dir)
	root, _ := repo.WriteTree(ctx, "")

	data, _ := repo.Snapshot(root).ReadFile(ctx, "docs/notes.md")
	fmt.Print(string(data))

	// Output:
	// # notes
}
