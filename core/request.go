package core

import (
	"fmt"
	"strings"
	"time"
)

// SearchTerm is either a free keyword or a (title, artist) pair.
type SearchTerm struct {
	Keyword string
	Title   string
	Artist  string
}

// NewKeywordTerm builds a free-keyword search term.
func NewKeywordTerm(keyword string) SearchTerm {
	return SearchTerm{Keyword: keyword}
}

// NewInfoTerm builds a (title, artist) search term.
func NewInfoTerm(title, artist string) SearchTerm {
	return SearchTerm{Title: title, Artist: artist}
}

// IsKeyword reports whether the term is a free keyword rather than a
// (title, artist) pair.
func (t SearchTerm) IsKeyword() bool {
	return t.Keyword != ""
}

// String yields the provider-facing query string.
func (t SearchTerm) String() string {
	if t.IsKeyword() {
		return t.Keyword
	}
	return strings.TrimSpace(t.Title + " " + t.Artist)
}

// SearchRequest is an immutable description of one lyrics search. It is
// attached read-only to result metadata for traceability.
type SearchRequest struct {
	Term SearchTerm `json:"term"`
	// Duration is the expected track duration in seconds; 0 means unknown.
	Duration float64 `json:"duration,omitempty"`
	// Limit caps the number of candidates taken per provider.
	Limit int `json:"limit,omitempty"`
	// Timeout bounds the whole search; enforced by the caller, carried here
	// as data.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// NewSearchRequest builds a request with the service defaults.
func NewSearchRequest(term SearchTerm, duration float64) SearchRequest {
	return SearchRequest{
		Term:     term,
		Duration: duration,
		Limit:    6,
		Timeout:  10 * time.Second,
	}
}

func (r SearchRequest) String() string {
	return fmt.Sprintf("%s (%.0fs)", r.Term, r.Duration)
}
