package utils

import (
	"fmt"
	"math"
)

// SafeUint8 converts x to uint8, failing if the value does not fit.
func SafeUint8(x int) (uint8, error) {
	if x < 0 || x > math.MaxUint8 {
		return 0, fmt.Errorf("value %d out of range for uint8", x)
	}
	return uint8(x), nil
}

// MustUint8 is like SafeUint8 but panics on error.
func MustUint8(x int) uint8 {
	u, err := SafeUint8(x)
	if err != nil {
		panic(err)
	}
	return u
}
