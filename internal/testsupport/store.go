package testsupport

import (
	"path/filepath"
	"testing"

	"urlsort/internal/logging"
	"urlsort/internal/memo"
)

// MustOpenMemo opens a memo.Store in a temp directory and registers cleanup.
func MustOpenMemo(t testing.TB) *memo.Store {
	t.Helper()

	store, err := memo.Open(filepath.Join(t.TempDir(), "memo.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("memo.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
