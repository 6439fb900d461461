package utils

import "unsafe"

func MapSlice[T any, U any](s []T, mapper func(e T) U) []U {
	result := make([]U, len(s))
	for i, e := range s {
		result[i] = mapper(e)
	}
	return result
}

// BytesAsString returns a string sharing the memory of b, b should not be modified afterwards.
func BytesAsString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringAsBytes returns a slice sharing the memory of s, the slice should not be modified.
func StringAsBytes[T ~string](s T) []byte {
	return unsafe.Slice(unsafe.StringData(string(s)), len(s))
}
