package kiwi

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// charToByteMap returns the byte offset of every character index in text,
// with one extra entry holding len(text). Token offsets are character
// indices, so slicing multi-byte text needs this table.
func charToByteMap(text string) []int {
	m := make([]int, 0, len(text)+1)
	for i := range text {
		m = append(m, i)
	}
	m = append(m, len(text))
	return m
}

// sliceCharRange slices text by character indices using a precomputed map.
// Out-of-range indices are clamped.
func sliceCharRange(text string, m []int, begin, end int) string {
	last := len(m) - 1
	if begin > last {
		begin = last
	}
	if end > last {
		end = last
	}
	if begin >= end {
		return ""
	}
	return text[m[begin]:m[end]]
}

// byteToCharIndex converts a byte offset into a character index.
func byteToCharIndex(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return utf8.RuneCountInString(text[:offset])
}

func stripAllWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isHangulSyllable(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}

func isHangulOrSentencePunct(r rune) bool {
	return isHangulSyllable(r) || r == '.' || r == ',' || r == '!' || r == '?' ||
		r == ':' || r == ';'
}

// endsWithASCIIWord reports whether the last non-space character is ASCII
// alphanumeric.
func endsWithASCIIWord(s string) bool {
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			continue
		}
		r := runes[i]
		return (r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z')
	}
	return false
}
