package utils

import "golang.org/x/exp/constraints"

func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Contains reports whether v is one of set.
func Contains[T comparable](set []T, v T) bool {
	return IndexOf(set, v) >= 0
}

// IndexOf returns the position of v in set, or -1.
func IndexOf[T comparable](set []T, v T) int {
	for i, s := range set {
		if s == v {
			return i
		}
	}
	return -1
}
