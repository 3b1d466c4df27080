package bloom

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

var ErrNoFilters = errors.New("bloom: nothing to merge")

// Merge returns a new filter holding the union of filters. The inputs are not
// modified.
func Merge(filters ...*BloomFilter) (*BloomFilter, error) {
	if len(filters) == 0 {
		return nil, ErrNoFilters
	}
	merged := filters[0].Clone()
	for _, f := range filters[1:] {
		if err := merged.Union(f); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// checkEvery is how many inserts happen between context checks.
const checkEvery = 1024

// BuildPartitioned builds one filter per partition concurrently and merges
// them. The result equals inserting every element into a single filter.
func BuildPartitioned(ctx context.Context, m, k uint64, partitions [][][]byte, opts ...Option) (*BloomFilter, error) {
	if len(partitions) == 0 {
		return New(m, k, opts...), nil
	}

	filters := make([]*BloomFilter, len(partitions))
	g, ctx := errgroup.WithContext(ctx)
	for i, part := range partitions {
		g.Go(func() error {
			bf := New(m, k, opts...)
			for j, data := range part {
				if j%checkEvery == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				bf.Insert(data)
			}
			filters[i] = bf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(filters...)
}
