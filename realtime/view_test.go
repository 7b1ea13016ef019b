package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ids   []string
	seq   int64
	loads int
	err   error
}

func (f *fakeSource) load(context.Context) ([]string, int64, error) {
	f.loads++
	return f.ids, f.seq, f.err
}

func TestWishlistView_AppliesInOrder(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{ids: []string{"e1"}, seq: 4}
	v := NewWishlistView(src.load)
	require.NoError(t, v.Reload(ctx))

	reloaded, err := v.Apply(ctx, WishlistChanged{Seq: 5, Op: OpInsert, ExperienceID: "e2"})
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, []string{"e2", "e1"}, v.IDs())

	reloaded, err = v.Apply(ctx, WishlistChanged{Seq: 6, Op: OpDelete, ExperienceID: "e1"})
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, []string{"e2"}, v.IDs())
	assert.Equal(t, int64(6), v.Seq())
	assert.Equal(t, 1, src.loads)
}

func TestWishlistView_IgnoresStale(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{ids: []string{"e1"}, seq: 4}
	v := NewWishlistView(src.load)
	require.NoError(t, v.Reload(ctx))

	reloaded, err := v.Apply(ctx, WishlistChanged{Seq: 4, Op: OpDelete, ExperienceID: "e1"})
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, []string{"e1"}, v.IDs())
}

func TestWishlistView_GapReloads(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{ids: []string{"e1"}, seq: 1}
	v := NewWishlistView(src.load)
	require.NoError(t, v.Reload(ctx))

	src.ids, src.seq = []string{"e3", "e1"}, 3
	reloaded, err := v.Apply(ctx, WishlistChanged{Seq: 3, Op: OpInsert, ExperienceID: "e3"})
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, []string{"e3", "e1"}, v.IDs())
	assert.Equal(t, 2, src.loads)
}

func TestWishlistView_UnknownOpReloads(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{ids: []string{}, seq: 0}
	v := NewWishlistView(src.load)
	require.NoError(t, v.Reload(ctx))

	src.seq = 1
	reloaded, err := v.Apply(ctx, WishlistChanged{Seq: 1, Op: "TRUNCATE"})
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, int64(1), v.Seq())
}

func TestWishlistView_ReloadError(t *testing.T) {
	src := &fakeSource{err: errors.New("db gone")}
	v := NewWishlistView(src.load)
	assert.Error(t, v.Reload(context.Background()))
}
