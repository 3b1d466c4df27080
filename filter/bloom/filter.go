package bloom

import (
	"math"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/rag-nar1/dhbloom/filter"
	"github.com/sirupsen/logrus"
)

// BloomFilter is a fixed-size Bloom filter over byte strings. Probe locations
// come from two 128-bit digests combined by enhanced double hashing, see
// filter.Locate.
//
// A BloomFilter is not safe for concurrent mutation; wrap it in Synced when
// it is shared between goroutines.
type BloomFilter struct {
	m   uint64 // size of bit-array
	k   uint64 // number of probes
	alg filter.Algorithm

	bits *bitset.BitSet // the filter actual storage
	log  logrus.FieldLogger
}

type Option func(*BloomFilter)

// WithAlgorithm selects the 128-bit hash family. The default is filter.Murmur3.
func WithAlgorithm(alg filter.Algorithm) Option {
	return func(bf *BloomFilter) {
		bf.alg = alg
	}
}

// WithLogger attaches a logger that receives debug output from queries.
func WithLogger(log logrus.FieldLogger) Option {
	return func(bf *BloomFilter) {
		bf.log = log
	}
}

// New returns an empty filter with m bits and k probes. Both are clamped to
// at least 1.
func New(m, k uint64, opts ...Option) *BloomFilter {
	m, k = max(m, 1), max(k, 1)
	bf := &BloomFilter{
		m:    m,
		k:    k,
		alg:  filter.Murmur3,
		bits: bitset.New(uint(m)),
	}
	for _, opt := range opts {
		opt(bf)
	}
	return bf
}

// NewWithEstimates returns a filter sized for n elements at false-positive
// rate fpRate.
func NewWithEstimates(n uint64, fpRate float64, opts ...Option) *BloomFilter {
	m, k := filter.OptimalParams(n, fpRate)
	return New(m, k, opts...)
}

// Cap returns the capacity, m, of the filter.
func (bf *BloomFilter) Cap() uint64 {
	return bf.m
}

func (bf *BloomFilter) K() uint64 {
	return bf.k
}

func (bf *BloomFilter) Algorithm() filter.Algorithm {
	return bf.alg
}

// Hash returns the k bit locations data maps to.
func (bf *BloomFilter) Hash(data []byte) []uint64 {
	return filter.Indices(bf.alg, data, bf.m, bf.k)
}

func (bf *BloomFilter) Insert(data []byte) *BloomFilter {
	h := filter.Derive(bf.alg, data)
	for i := uint64(0); i < bf.k; i++ {
		bf.bits.Set(uint(filter.Locate(h, i, bf.m)))
	}
	return bf
}

// Contains reports whether data may have been inserted. A false result is
// definite.
func (bf *BloomFilter) Contains(data []byte) bool {
	h := filter.Derive(bf.alg, data)
	if bf.log != nil {
		bf.log.WithFields(logrus.Fields{
			"hashes": h,
			"m":      bf.m,
			"k":      bf.k,
		}).Debug("bloom: contains")
	}
	for i := uint64(0); i < bf.k; i++ {
		if !bf.bits.Test(uint(filter.Locate(h, i, bf.m))) {
			return false
		}
	}
	return true
}

func (bf *BloomFilter) Clear() *BloomFilter {
	bf.bits.ClearAll()
	return bf
}

// Union ORs other into bf. Both filters must share m, k and the hash
// algorithm; on mismatch bf is left untouched.
func (bf *BloomFilter) Union(other *BloomFilter) error {
	if err := bf.compatible(other); err != nil {
		if bf.log != nil {
			bf.log.WithError(err).Debug("bloom: union rejected")
		}
		return err
	}
	bf.bits.InPlaceUnion(other.bits)
	return nil
}

func (bf *BloomFilter) compatible(other *BloomFilter) error {
	if bf.m != other.m {
		return &DimensionMismatchError{Param: "m", Left: bf.m, Right: other.m}
	}
	if bf.k != other.k {
		return &DimensionMismatchError{Param: "k", Left: bf.k, Right: other.k}
	}
	if bf.alg != other.alg {
		return ErrAlgorithmMismatch
	}
	return nil
}

// Clone returns an independent copy. The logger is shared.
func (bf *BloomFilter) Clone() *BloomFilter {
	return &BloomFilter{
		m:    bf.m,
		k:    bf.k,
		alg:  bf.alg,
		bits: bf.bits.Clone(),
		log:  bf.log,
	}
}

// Equal reports whether both filters have the same parameters and bits.
func (bf *BloomFilter) Equal(other *BloomFilter) bool {
	return bf.compatible(other) == nil && bf.bits.Equal(other.bits)
}

// BitSet returns a copy of the underlying bit array.
func (bf *BloomFilter) BitSet() *bitset.BitSet {
	return bf.bits.Clone()
}

// Count returns the number of set bits.
func (bf *BloomFilter) Count() uint64 {
	return uint64(bf.bits.Count())
}

func (bf *BloomFilter) FillRatio() float64 {
	return float64(bf.Count()) / float64(bf.m)
}

// EstimatedCount approximates how many distinct elements were inserted:
//
//	n = -m/k * ln(1 - X/m)
//
// where X is the number of set bits. A saturated filter reports +Inf.
func (bf *BloomFilter) EstimatedCount() float64 {
	x := float64(bf.Count())
	m := float64(bf.m)
	return -m / float64(bf.k) * math.Log(1-x/m)
}

// String renders the bits as '0'/'1', index 0 first.
func (bf *BloomFilter) String() string {
	var sb strings.Builder
	sb.Grow(int(bf.m))
	for i := uint64(0); i < bf.m; i++ {
		if bf.bits.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
