package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcegraph/lsif-flow/internal/metrics"
	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

func pushIDs(t *testing.T, b *reorderBuffer, ids ...uint64) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, b.push(protocol.NewResultSet(id)))
	}
}

func TestReorderBuffer(t *testing.T) {
	var got []uint64
	b := newReorderBuffer(func(item protocol.Item) error {
		got = append(got, item.GetID())
		return nil
	}, nil)

	pushIDs(t, b, 1, 3, 2, 5, 4)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, got)

	require.NoError(t, b.close())
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, got)
	assert.Zero(t, b.gaps)
}

func TestReorderBufferHoldsUntilLowestArrives(t *testing.T) {
	var got []uint64
	b := newReorderBuffer(func(item protocol.Item) error {
		got = append(got, item.GetID())
		return nil
	}, nil)

	pushIDs(t, b, 11, 15, 14, 13)
	assert.Equal(t, []uint64{11}, got)
	assert.Equal(t, 3, b.queue.Len())

	pushIDs(t, b, 12)
	assert.Equal(t, []uint64{11, 12, 13, 14, 15}, got)
	assert.Zero(t, b.queue.Len())
}

func TestReorderBufferDrainsGapsOnClose(t *testing.T) {
	recorder := metrics.New()

	var got []uint64
	b := newReorderBuffer(func(item protocol.Item) error {
		got = append(got, item.GetID())
		return nil
	}, recorder)

	pushIDs(t, b, 1, 2, 4)
	assert.Equal(t, []uint64{1, 2}, got)

	require.NoError(t, b.close())
	assert.Equal(t, []uint64{1, 2, 4}, got)
	assert.Equal(t, uint(1), b.gaps)
}

func TestReorderBufferEmitError(t *testing.T) {
	failure := errors.New("closed pipe")
	b := newReorderBuffer(func(item protocol.Item) error {
		if item.GetID() == 2 {
			return failure
		}
		return nil
	}, nil)

	require.NoError(t, b.push(protocol.NewResultSet(1)))
	require.NoError(t, b.push(protocol.NewResultSet(3)))
	assert.ErrorIs(t, b.push(protocol.NewResultSet(2)), failure)
}
