package kugou

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"lyricskit-go/config"
	"lyricskit-go/core"
	"lyricskit-go/logcolors"
	"lyricskit-go/services/providers"
)

// ProviderName is the identifier for the Kugou provider
const ProviderName = "kugou"

// KugouProvider implements the providers.Provider interface for Kugou
// word-synced KRC lyrics
type KugouProvider struct{}

// NewProvider creates a new Kugou provider instance
func NewProvider() *KugouProvider {
	return &KugouProvider{}
}

// Name returns the provider identifier
func (p *KugouProvider) Name() string {
	return ProviderName
}

// Search queries the Kugou lyrics search API and returns one token per
// candidate. Candidate durations arrive in milliseconds and are converted
// to seconds on the token.
func (p *KugouProvider) Search(ctx context.Context, request core.SearchRequest) ([]providers.Token, error) {
	keyword := request.Term.String()
	if keyword == "" {
		return nil, providers.NewProviderError(ProviderName, "search term cannot be empty", nil)
	}

	log.Infof("%s [Kugou] Searching: %s", logcolors.LogSearch, keyword)

	durationMs := int(request.Duration * 1000)
	candidates, err := searchLyrics(ctx, keyword, durationMs)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "lyrics search failed", err)
	}

	limit := request.Limit
	if limit <= 0 {
		limit = config.Get().Configuration.SearchResultLimit
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	tokens := make([]providers.Token, 0, len(candidates))
	for _, c := range candidates {
		tokens = append(tokens, providers.Token{
			Provider:  ProviderName,
			ID:        c.ID,
			Title:     c.Song,
			Artist:    c.Singer,
			Duration:  float64(c.Duration) / 1000,
			AccessKey: c.AccessKey,
		})
	}

	log.Infof("%s [Kugou] Found %d candidates for: %s", logcolors.LogMatch, len(tokens), keyword)
	return tokens, nil
}

// Fetch downloads and decodes the KRC document behind a token.
func (p *KugouProvider) Fetch(ctx context.Context, token providers.Token) (*core.Lyrics, error) {
	if token.ID == "" || token.AccessKey == "" {
		return nil, providers.NewProviderError(ProviderName, "token is missing id or access key", nil)
	}

	encoded, err := downloadKRC(ctx, token.ID, token.AccessKey)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to download lyrics", err)
	}

	content, err := DecodeKRC(encoded)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to decode KRC content", err)
	}

	ly, err := ParseKRC(content)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to parse KRC content", err)
	}
	log.Debugf("%s [Kugou] Decoded %d bytes of KRC into %d lines", logcolors.LogDecoder, len(content), len(ly.Lines))

	if token.Title != "" {
		ly.IDTags[core.IDTagTitle] = token.Title
	}
	if token.Artist != "" {
		ly.IDTags[core.IDTagArtist] = token.Artist
	}
	ly.IDTags[core.IDTagLrcBy] = "Kugou"
	if token.Duration > 0 {
		ly.SetLength(token.Duration)
	}

	ly.Metadata.Source = ProviderName
	ly.Metadata.ProviderToken = fmt.Sprintf("%s,%s", token.ID, token.AccessKey)

	log.Infof("%s [Kugou] Fetched lyrics for: %s - %s (%d lines)",
		logcolors.LogSuccess, token.Title, token.Artist, len(ly.Lines))
	return ly, nil
}

// init registers the Kugou provider with the global registry
func init() {
	providers.Register(NewProvider())
}
