package core

import (
	"encoding/json"
	"sort"
)

// Metadata is the provenance record of a lyrics document. It is populated
// by the decoder that built the document and read-only afterwards, except
// for the explicit setters used during merge.
type Metadata struct {
	// Source identifies the provider the document came from.
	Source string
	// Request is the search request that produced the document.
	Request *SearchRequest
	// SearchIndex is the rank of the document in the provider's results.
	SearchIndex int
	// RemoteURL points at the document on the provider, when known.
	RemoteURL string
	// ArtworkURL points at the cover art, when known.
	ArtworkURL string
	// ProviderToken is an opaque provider-specific handle for re-fetching.
	ProviderToken string
	// Quality caches the computed quality score.
	Quality *float64

	attachmentTags map[string]struct{}
}

// NewMetadata creates an empty metadata record.
func NewMetadata() Metadata {
	return Metadata{attachmentTags: make(map[string]struct{})}
}

// AddAttachmentTag records that an attachment tag occurs somewhere in the
// document.
func (m *Metadata) AddAttachmentTag(tag string) {
	if m.attachmentTags == nil {
		m.attachmentTags = make(map[string]struct{})
	}
	m.attachmentTags[tag] = struct{}{}
}

// HasAttachmentTag reports whether a tag occurs anywhere in the document.
func (m Metadata) HasAttachmentTag(tag string) bool {
	_, ok := m.attachmentTags[tag]
	return ok
}

// HasTranslation reports whether any translation attachment occurs in the
// document.
func (m Metadata) HasTranslation() bool {
	for tag := range m.attachmentTags {
		if IsTranslationTag(tag) {
			return true
		}
	}
	return false
}

// AttachmentTags returns the recorded tags in deterministic order.
func (m Metadata) AttachmentTags() []string {
	tags := make([]string, 0, len(m.attachmentTags))
	for tag := range m.attachmentTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

type metadataJSON struct {
	Source         string         `json:"source,omitempty"`
	Request        *SearchRequest `json:"request,omitempty"`
	SearchIndex    int            `json:"searchIndex,omitempty"`
	RemoteURL      string         `json:"remoteUrl,omitempty"`
	ArtworkURL     string         `json:"artworkUrl,omitempty"`
	ProviderToken  string         `json:"providerToken,omitempty"`
	Quality        *float64       `json:"quality,omitempty"`
	AttachmentTags []string       `json:"attachmentTags"`
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(metadataJSON{
		Source:         m.Source,
		Request:        m.Request,
		SearchIndex:    m.SearchIndex,
		RemoteURL:      m.RemoteURL,
		ArtworkURL:     m.ArtworkURL,
		ProviderToken:  m.ProviderToken,
		Quality:        m.Quality,
		AttachmentTags: m.AttachmentTags(),
	})
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw metadataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Source = raw.Source
	m.Request = raw.Request
	m.SearchIndex = raw.SearchIndex
	m.RemoteURL = raw.RemoteURL
	m.ArtworkURL = raw.ArtworkURL
	m.ProviderToken = raw.ProviderToken
	m.Quality = raw.Quality
	m.attachmentTags = make(map[string]struct{}, len(raw.AttachmentTags))
	for _, tag := range raw.AttachmentTags {
		m.attachmentTags[tag] = struct{}{}
	}
	return nil
}
