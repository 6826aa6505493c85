package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(items []Item, err error) Func {
	return func(context.Context, string) ([]Item, error) {
		return items, err
	}
}

func TestMergeKeepsSourceOrderAndDedupes(t *testing.T) {
	src := Merge(0,
		fixed(Named("go", "rust"), nil),
		fixed(Named("rust", "zig"), nil),
	)
	got, err := src(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust", "zig"}, Names(got))
}

func TestMergeLimit(t *testing.T) {
	src := Merge(2, fixed(Named("a", "b", "c"), nil))
	got, err := src(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMergeToleratesPartialFailure(t *testing.T) {
	src := Merge(0,
		fixed(nil, errors.New("offline")),
		fixed(Named("go"), nil),
	)
	got, err := src(context.Background(), "g")
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, Names(got))
}

func TestMergeFailsWhenAllFail(t *testing.T) {
	boom := errors.New("boom")
	src := Merge(0, fixed(nil, boom), fixed(nil, errors.New("offline")))
	_, err := src(context.Background(), "g")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMergeNoSources(t *testing.T) {
	got, err := Merge(0)(context.Background(), "g")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMergePassesQuery(t *testing.T) {
	var seen []string
	src := Merge(0, func(_ context.Context, q string) ([]Item, error) {
		seen = append(seen, q)
		return nil, nil
	})
	_, err := src(context.Background(), "ja")
	require.NoError(t, err)
	assert.Equal(t, []string{"ja"}, seen)
}

func TestMergeStopsWhenParentIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := Merge(0,
		fixed(Named("fast"), nil),
		func(ctx context.Context, _ string) ([]Item, error) {
			cancel()
			return nil, ctx.Err()
		},
		func(ctx context.Context, _ string) ([]Item, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	)
	got, err := src(ctx, "g")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}
