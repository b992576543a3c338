package utils

import (
	"unicode/utf8"
)

// IsBinary reports whether the provided byte slice appears to contain binary data.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// DecodeText returns data as a string when it is valid text.
// The second result is false for binary or non UTF-8 content.
func DecodeText(data []byte) (string, bool) {
	if IsBinary(data) {
		return "", false
	}
	return string(data), true
}
