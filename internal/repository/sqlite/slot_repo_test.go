package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/syncads/internal/errs"
)

func newRepo(t *testing.T) *SlotRepo {
	t.Helper()
	db, err := Open(context.Background(), "file:"+filepath.Join(t.TempDir(), "slot.db"))
	require.NoError(t, err)
	r := NewSlotRepo(db)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSlotRepo_LoadMissing(t *testing.T) {
	r := newRepo(t)
	_, err := r.Load(context.Background(), "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSlotRepo_SaveLoadOverwrite(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "k", []byte(`{"a":1}`)))
	got, err := r.Load(ctx, "k")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, r.Save(ctx, "k", []byte(`{"a":2}`)))
	got, err = r.Load(ctx, "k")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":2}`, string(got))
}

func TestSlotRepo_DeleteIdempotent(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "k", []byte("v")))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))
	_, err := r.Load(ctx, "k")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestOpen_MigrationsAreRepeatable(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "slot.db")
	ctx := context.Background()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, NewSlotRepo(db).Save(ctx, "k", []byte("v")))
	require.NoError(t, db.Close())

	db, err = Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()
	got, err := NewSlotRepo(db).Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(got))
}
