package gitcas

import "github.com/aweris/gitcas/internal/store"

// Store is the low-level object store interface.
// Re-exported from internal/store for convenience.
type Store = store.Store
