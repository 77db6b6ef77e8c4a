package qq

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	log "github.com/sirupsen/logrus"

	"lyricskit-go/config"
	"lyricskit-go/core"
	"lyricskit-go/logcolors"
	"lyricskit-go/services/providers"
)

// ProviderName is the identifier for the QQ Music provider
const ProviderName = "qq"

// QQMusicProvider implements the providers.Provider interface for QQ Music
// lyrics. The lyric endpoint serves base64 LRC documents with an optional
// translation track that can carry furigana annotations in its "kana" tag.
type QQMusicProvider struct{}

// NewProvider creates a new QQ Music provider instance
func NewProvider() *QQMusicProvider {
	return &QQMusicProvider{}
}

// Name returns the provider identifier
func (p *QQMusicProvider) Name() string {
	return ProviderName
}

// Search queries the QQ Music search API and returns one token per song.
func (p *QQMusicProvider) Search(ctx context.Context, request core.SearchRequest) ([]providers.Token, error) {
	query := request.Term.String()
	if query == "" {
		return nil, providers.NewProviderError(ProviderName, "search term cannot be empty", nil)
	}

	log.Infof("%s [QQ] Searching: %s", logcolors.LogSearch, query)

	songs, err := searchSongs(ctx, query)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "song search failed", err)
	}

	limit := request.Limit
	if limit <= 0 {
		limit = config.Get().Configuration.SearchResultLimit
	}
	if len(songs) > limit {
		songs = songs[:limit]
	}

	tokens := make([]providers.Token, 0, len(songs))
	for _, s := range songs {
		singers := make([]string, 0, len(s.Sings))
		for _, singer := range s.Sings {
			singers = append(singers, singer.Title)
		}
		tokens = append(tokens, providers.Token{
			Provider:   ProviderName,
			ID:         s.Mid,
			Title:      s.Title,
			Artist:     strings.Join(singers, ", "),
			Album:      s.Album.Title,
			Duration:   float64(s.Interval),
			ArtworkURL: artworkURL(s.ID),
		})
	}

	log.Infof("%s [QQ] Found %d candidates for: %s", logcolors.LogMatch, len(tokens), query)
	return tokens, nil
}

// Fetch retrieves and assembles the lyrics document behind a token.
func (p *QQMusicProvider) Fetch(ctx context.Context, token providers.Token) (*core.Lyrics, error) {
	if token.ID == "" {
		return nil, providers.NewProviderError(ProviderName, "token is missing song mid", nil)
	}

	bundle, err := fetchLyrics(ctx, token.ID)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to fetch lyrics", err)
	}

	if bundle.Lyric == "" {
		return nil, providers.NewProviderError(ProviderName, "lyric is empty", nil)
	}
	lrcContent, err := decodeLyrics(bundle.Lyric)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to decode lyrics", err)
	}

	ly, err := core.Parse(lrcContent)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to parse lyrics", err)
	}

	if bundle.Trans != "" {
		if transContent, err := decodeLyrics(bundle.Trans); err == nil {
			if transLrc, err := core.Parse(transContent); err == nil {
				ly.Merge(transLrc)
				if kana, ok := transLrc.IDTags["kana"]; ok {
					ApplyFurigana(ly, kana)
				}
			}
		}
	}

	if token.Title != "" {
		ly.IDTags[core.IDTagTitle] = token.Title
	}
	if token.Artist != "" {
		ly.IDTags[core.IDTagArtist] = token.Artist
	}
	if token.Album != "" {
		ly.IDTags[core.IDTagAlbum] = token.Album
	}
	if token.Duration > 0 {
		ly.SetLength(token.Duration)
	}

	ly.Metadata.Source = ProviderName
	ly.Metadata.ProviderToken = token.ID
	ly.Metadata.ArtworkURL = token.ArtworkURL

	log.Infof("%s [QQ] Fetched lyrics for: %s - %s (%d lines)",
		logcolors.LogSuccess, token.Title, token.Artist, len(ly.Lines))
	return ly, nil
}

// decodeLyrics decodes a base64 LRC document and resolves HTML entities.
func decodeLyrics(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return html.UnescapeString(string(data)), nil
}

func artworkURL(id int) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("http://imgcache.qq.com/music/photo/album/%d/%d.jpg", id%100, id)
}

// init registers the QQ Music provider with the global registry
func init() {
	providers.Register(NewProvider())
}
