// Package utils holds small generic helpers shared by the internal packages.
package utils

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// IsInRange reports whether lo <= value <= hi.
func IsInRange[T number](lo T, value T, hi T) bool {
	return lo <= value && value <= hi
}
