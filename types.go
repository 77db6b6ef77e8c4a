package main

import (
	"lyricskit-go/transliterate"
)

type contextKey string

const (
	cacheOnlyModeKey contextKey = "cacheOnlyMode"
	rateLimitTypeKey contextKey = "rateLimitType"
)

// LyricsResult is one aggregated document in API responses
type LyricsResult struct {
	Source   string  `json:"source"`
	Quality  float64 `json:"quality"`
	Artwork  string  `json:"artwork,omitempty"`
	Remote   string  `json:"remote,omitempty"`
	Lyrics   string  `json:"lyrics"`
	Matched  bool    `json:"matched"`
	Position int     `json:"position"`
}

// SearchResponse is the response format for /search
type SearchResponse struct {
	Count   int            `json:"count"`
	Results []LyricsResult `json:"results"`
}

// AlignRequest carries a lyrics document and the romanized reference text
// for /align. Romaji holds one reference line per timed line.
type AlignRequest struct {
	Lyrics string   `json:"lyrics"`
	Romaji []string `json:"romaji"`
}

// TypingRequest carries annotated words for /typing
type TypingRequest struct {
	Words    []transliterate.RubyWord `json:"words"`
	Language string                   `json:"language"`
}

// CacheStatsResponse is the response format for /cache
type CacheStatsResponse struct {
	NumberOfKeys int     `json:"number_of_keys"`
	SizeInKB     int     `json:"size_kb"`
	SizeInMB     float64 `json:"size_mb"`
}

// ErrorResponse is the JSON envelope for error statuses
type ErrorResponse struct {
	Error string `json:"error"`
}
