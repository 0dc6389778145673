package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/farkas/internal/store"
)

// OpenStore opens a certificate log in a temporary directory and closes it
// when the test ends.
func OpenStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "farkas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
