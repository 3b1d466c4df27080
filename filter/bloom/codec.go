package bloom

import (
	"bytes"
	"fmt"

	"github.com/rag-nar1/dhbloom/filter"
)

// Encoded layout, all integers little-endian:
//
//	magic "DHB1" (4) | algorithm u8 | reserved (3) | m u64 | k u64 | words
//
// words holds ceil(m/64) uint64 values; bit j lives in word j/64 at bit j%64.
const (
	Magic       = "DHB1"
	HeaderBytes = 24
)

// Serialize encodes the filter in the format above.
func (bf *BloomFilter) Serialize() []byte {
	words := bf.bits.Bytes()
	buf := bytes.NewBuffer(make([]byte, 0, HeaderBytes+len(words)*8))
	buf.WriteString(Magic)
	filter.SerializeUint(buf, uint64(bf.alg), 1)
	filter.SerializeUint(buf, 0, 3)
	filter.SerializeUint(buf, bf.m, 8)
	filter.SerializeUint(buf, bf.k, 8)
	for _, w := range words {
		filter.SerializeUint(buf, w, 8)
	}
	return buf.Bytes()
}

// Deserialize decodes a filter produced by Serialize. The algorithm recorded
// in the data overrides any WithAlgorithm option.
func Deserialize(data []byte, opts ...Option) (*BloomFilter, error) {
	if len(data) < HeaderBytes {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrBadLength, len(data), HeaderBytes)
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}

	buf := bytes.NewBuffer(data[len(Magic):])
	alg := filter.Algorithm(filter.DeserializeUint[uint8](buf, 1))
	filter.DeserializeUint[uint32](buf, 3)
	m := filter.DeserializeUint[uint64](buf, 8)
	k := filter.DeserializeUint[uint64](buf, 8)

	if !alg.Valid() {
		return nil, fmt.Errorf("%w: id %d", filter.ErrUnknownAlgorithm, uint8(alg))
	}
	if m == 0 || k == 0 {
		return nil, ErrBadParams
	}
	words := (m-1)/64 + 1
	if have := uint64(len(data)-HeaderBytes) / 8; words != have || (len(data)-HeaderBytes)%8 != 0 {
		return nil, fmt.Errorf("%w: m=%d needs %d words", ErrBadLength, m, words)
	}

	bf := New(m, k, opts...)
	bf.alg = alg
	set := bf.bits.Bytes()
	for i := range set {
		set[i] = filter.DeserializeUint[uint64](buf, 8)
	}
	if tail := m % 64; tail != 0 && set[len(set)-1]>>tail != 0 {
		return nil, ErrCorrupt
	}
	return bf, nil
}

func (bf *BloomFilter) MarshalBinary() ([]byte, error) {
	return bf.Serialize(), nil
}

func (bf *BloomFilter) UnmarshalBinary(data []byte) error {
	decoded, err := Deserialize(data, WithLogger(bf.log))
	if err != nil {
		return err
	}
	*bf = *decoded
	return nil
}
