package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgryski/go-metro"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
	"github.com/zhenjl/cityhash"
)

var ErrUnknownAlgorithm = errors.New("filter: unknown hash algorithm")

// Algorithm names the 128-bit hash family used to derive probe locations.
// Two filters are only comparable when they were built with the same one.
type Algorithm uint8

const (
	Murmur3 Algorithm = iota // MurmurHash3 x64_128, seed 0
	XXH3
	Metro
	City
)

var algorithmNames = [...]string{
	Murmur3: "murmur3",
	XXH3:    "xxh3",
	Metro:   "metro",
	City:    "city",
}

func (a Algorithm) Valid() bool {
	return int(a) < len(algorithmNames)
}

func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
	return algorithmNames[a]
}

func ParseAlgorithm(name string) (Algorithm, error) {
	for i, n := range algorithmNames {
		if strings.EqualFold(n, name) {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Hash128 returns the low and high 64 bits of the 128-bit digest of data.
func (a Algorithm) Hash128(data []byte) (lo, hi uint64) {
	switch a {
	case XXH3:
		h := xxh3.Hash128(data)
		return h.Lo, h.Hi
	case Metro:
		return metro.Hash128(data, 0)
	case City:
		h := cityhash.CityHash128(data, uint32(len(data)))
		return h[0], h[1]
	default:
		// murmur3 emits h1 first, which is the low word of the x64_128 digest
		return murmur3.Sum128(data)
	}
}

// Hashes holds the four words every probe location is derived from:
// [h1_low, h1_high, h2_low, h2_high].
type Hashes [4]uint64

// Derive computes two digests, one over data and one over data with a single
// 0x01 byte appended, and splits each into its low and high halves.
func Derive(alg Algorithm, data []byte) Hashes {
	var h Hashes
	h[0], h[1] = alg.Hash128(data)

	// never append to data directly, it may share a backing array with the caller
	var stack [64]byte
	var salted []byte
	if len(data) < len(stack) {
		salted = append(stack[:0], data...)
	} else {
		salted = make([]byte, 0, len(data)+1)
		salted = append(salted, data...)
	}
	salted = append(salted, 0x01)
	h[2], h[3] = alg.Hash128(salted)

	return h
}

// Locate returns the bit index in [0, m) for probe i.
//
// The base alternates between h1_low and h1_high while the mixer cycles
// through h2 with period 4. Overflow wraps.
func Locate(h Hashes, i, m uint64) uint64 {
	base := h[i%2]
	mixer := h[2+((i+i%2)%4)/2]
	return (base + i*mixer) % m
}

// Indices returns the k probe locations of data in probe order.
func Indices(alg Algorithm, data []byte, m, k uint64) []uint64 {
	h := Derive(alg, data)
	idx := make([]uint64, k)
	for i := uint64(0); i < k; i++ {
		idx[i] = Locate(h, i, m)
	}
	return idx
}
