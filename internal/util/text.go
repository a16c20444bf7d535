package util

import (
	"strings"
	"unicode"
)

// LowerTurkish lowercases with Turkish casing rules so "İŞ KANUNU" and
// "iş kanunu" compare equal (İ→i, I→ı).
func LowerTurkish(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}

// NormalizeTitle produces the canonical comparison key for a document title:
// Turkish-folded, punctuation stripped, whitespace collapsed.
func NormalizeTitle(s string) string {
	lower := LowerTurkish(s)
	var b strings.Builder
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SplitWords breaks a query into normalized search words.
func SplitWords(query string) []string {
	return strings.Fields(NormalizeTitle(query))
}
