package filter

import (
	"bytes"
	"math"
)

func SerializeUint(buf *bytes.Buffer, value uint64, size int) {
	byteData := make([]byte, size)
	for i := range size {
		byteData[i] = byte(value >> (i * 8))
	}
	buf.Write(byteData)
}

// DeserializeUint reads size little-endian bytes. The caller checks that buf
// holds enough data; a short read yields the bytes that were available.
func DeserializeUint[T uint64 | uint32 | uint8](buf *bytes.Buffer, size int) T {
	byteData := make([]byte, size)
	buf.Read(byteData)
	value := uint64(0)
	for i := range size {
		value |= uint64(byteData[i]) << (i * 8)
	}
	return T(value)
}

// OptimalParams sizes a filter for n elements at false-positive rate p.
//
//	m = ceil(-n * ln(p) / ln(2)^2)
//	k = round(m / n * ln(2))
func OptimalParams(n uint64, p float64) (m, k uint64) {
	if n == 0 {
		n = 1
	}
	if p <= 0 || p >= 1 {
		p = 0.01
	}
	m = uint64(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	k = uint64(math.Round(float64(m) / float64(n) * math.Ln2))
	return max(m, 1), max(k, 1)
}

// FalsePositiveRate is the expected false-positive probability after n
// insertions into a filter of m bits and k probes: (1 - e^(-kn/m))^k.
func FalsePositiveRate(m, k, n uint64) float64 {
	if m == 0 {
		return 1
	}
	return math.Pow(1-math.Exp(-float64(k)*float64(n)/float64(m)), float64(k))
}
