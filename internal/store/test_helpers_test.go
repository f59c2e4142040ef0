package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/focusnav/internal/testutil"
)

// createTestStore creates a new store in a temp directory with fixed run ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewFixedIDGenerator("run-1", "run-2", "run-3", "run-4")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
