package util

import (
	"unicode"
	"unicode/utf8"
)

func isPunct(r rune) bool {
	if unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return true
	}
	// CJK Symbols and Punctuation
	if r >= 0x3000 && r <= 0x303F {
		return true
	}
	// Full-width forms
	if r >= 0xFF00 && r <= 0xFFEF {
		return true
	}
	return false
}

// ContainsPunctuation checks if any part of the string contains punctuation or special symbols.
// The end-of-sequence sentinel is passed as allowed so that "你好$" is not treated as noise.
func ContainsPunctuation(s string, allowed ...rune) bool {
	for _, r := range s {
		if isPunct(r) && !isAllowed(r, allowed) {
			return true
		}
	}
	return false
}

func isAllowed(r rune, allowed []rune) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// HasChinese reports whether s contains at least one Han character.
func HasChinese(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
