package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/syncads/internal/errs"
)

func TestSlotRepo_LoadMissing(t *testing.T) {
	t.Parallel()
	_, err := NewSlotRepo().Load(context.Background(), "k")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSlotRepo_CopiesBytes(t *testing.T) {
	t.Parallel()
	r := NewSlotRepo()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, r.Save(ctx, "k", in))
	in[0] = 'x'

	out, err := r.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(out))

	out[0] = 'y'
	again, err := r.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(again))
}

func TestSlotRepo_DeleteIdempotent(t *testing.T) {
	t.Parallel()
	r := NewSlotRepo()
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, "k", []byte("v")))
	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))
	_, err := r.Load(ctx, "k")
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, r.Close())
}
