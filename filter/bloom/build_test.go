package bloom_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rag-nar1/dhbloom/filter"
	"github.com/rag-nar1/dhbloom/filter/bloom"
	"github.com/stretchr/testify/require"
)

func partition(n, parts int) [][][]byte {
	out := make([][][]byte, parts)
	for i := range n {
		out[i%parts] = append(out[i%parts], []byte(fmt.Sprintf("testdata%d", i)))
	}
	return out
}

func TestBuildPartitionedMatchesSequential(t *testing.T) {
	parts := partition(5000, 7)

	seq := bloom.New(1<<15, 6, bloom.WithAlgorithm(filter.XXH3))
	for _, part := range parts {
		for _, data := range part {
			seq.Insert(data)
		}
	}

	built, err := bloom.BuildPartitioned(context.Background(), 1<<15, 6, parts, bloom.WithAlgorithm(filter.XXH3))
	require.NoError(t, err)
	require.True(t, seq.Equal(built))
}

func TestBuildPartitionedEmpty(t *testing.T) {
	bf, err := bloom.BuildPartitioned(context.Background(), 0, 0, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1), bf.Cap())
	require.Zero(t, bf.Count())
}

func TestBuildPartitionedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bf, err := bloom.BuildPartitioned(ctx, 1024, 3, partition(100, 2))
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, bf)
}

func TestMerge(t *testing.T) {
	a := bloom.New(32, 3).Insert([]byte("hello"))
	b := bloom.New(32, 3).Insert([]byte("world"))

	merged, err := bloom.Merge(a, b)
	require.NoError(t, err)
	require.Equal(t, "00101000001000000000010000100010", merged.String())
	// inputs are untouched
	require.Equal(t, "00100000000000000000010000100000", a.String())

	_, err = bloom.Merge(a, bloom.New(32, 4))
	require.ErrorIs(t, err, bloom.ErrDimensionMismatch)

	_, err = bloom.Merge()
	require.ErrorIs(t, err, bloom.ErrNoFilters)
}
