package utils

import "golang.org/x/exp/constraints"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// FindIndexFunc returns the index of the first element satisfying match, or -1.
func FindIndexFunc[T any](slice []T, match func(T) bool) int {
	for i, v := range slice {
		if match(v) {
			return i
		}
	}
	return -1
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
