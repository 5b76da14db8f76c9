package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/syncads/internal/errs"
)

func TestDefaultDir_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.Equal(t, filepath.Join(dir, "syncads"), DefaultDir())
}

func TestSlotRepo_SaveLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewSlotRepo(filepath.Join(t.TempDir(), "nested", "cfg"))

	_, err := r.Load(ctx, "marketing-ai-storage")
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, r.Save(ctx, "marketing-ai-storage", []byte(`{"version":1}`)))
	got, err := r.Load(ctx, "marketing-ai-storage")
	require.NoError(t, err)
	require.Equal(t, `{"version":1}`, string(got))

	info, err := os.Stat(r.Path("marketing-ai-storage"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSlotRepo_PathSanitizesKey(t *testing.T) {
	t.Parallel()
	r := NewSlotRepo("/tmp/x")
	p := r.Path("../evil/key")
	require.True(t, strings.HasPrefix(p, "/tmp/x/"), p)
	require.NotContains(t, strings.TrimPrefix(p, "/tmp/x/"), "/")
}

func TestSlotRepo_DeleteIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewSlotRepo(t.TempDir())

	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Save(ctx, "k", []byte("v")))
	require.NoError(t, r.Delete(ctx, "k"))
	_, err := r.Load(ctx, "k")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSlotRepo_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewSlotRepo(t.TempDir())
	require.ErrorIs(t, r.Save(ctx, "k", []byte("v")), context.Canceled)
}
