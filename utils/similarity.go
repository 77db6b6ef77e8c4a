package utils

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity returns the normalized edit-distance similarity of two strings
// in [0, 1]. Identical strings score 1; fully disjoint strings score 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

// SimilarityIn returns the similarity of needle against the best-matching
// window of haystack, so that a title matches inside a longer display name.
func SimilarityIn(needle, haystack string) float64 {
	if strings.Contains(haystack, needle) {
		return 1
	}
	return Similarity(needle, haystack)
}

// IsCaseInsensitiveSimilar reports whether two strings are similar enough
// to be considered the same title or artist, ignoring case.
func IsCaseInsensitiveSimilar(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return SimilarityIn(la, lb) > 0.8 || SimilarityIn(lb, la) > 0.8
}
