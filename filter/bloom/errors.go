package bloom

import (
	"errors"
	"fmt"
)

var (
	ErrDimensionMismatch = errors.New("bloom: dimension mismatch")
	ErrAlgorithmMismatch = errors.New("bloom: hash algorithm mismatch")

	ErrBadLength = errors.New("bloom: encoded filter has wrong length")
	ErrBadMagic  = errors.New("bloom: encoded filter magic invalid")
	ErrBadParams = errors.New("bloom: encoded filter m and k must be positive")
	ErrCorrupt   = errors.New("bloom: encoded filter has bits set beyond m")
)

// DimensionMismatchError reports which parameter differed in a Union and the
// two values involved. It matches ErrDimensionMismatch.
type DimensionMismatchError struct {
	Param string // "m" or "k"
	Left  uint64
	Right uint64
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("bloom: %s's don't match: %d != %d", e.Param, e.Left, e.Right)
}

func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
