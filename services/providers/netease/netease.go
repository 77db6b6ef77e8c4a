package netease

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"

	"lyricskit-go/config"
	"lyricskit-go/core"
	"lyricskit-go/logcolors"
	"lyricskit-go/services/providers"
)

// ProviderName is the identifier for the NetEase provider
const ProviderName = "netease"

// NeteaseProvider implements the providers.Provider interface for NetEase
// Cloud Music lyrics. It prefers the word-timed karaoke variant and falls
// back to plain LRC, merging the translated variant into either.
type NeteaseProvider struct{}

// NewProvider creates a new NetEase provider instance
func NewProvider() *NeteaseProvider {
	return &NeteaseProvider{}
}

// Name returns the provider identifier
func (p *NeteaseProvider) Name() string {
	return ProviderName
}

// Search queries the NetEase song search API and returns one token per song.
func (p *NeteaseProvider) Search(ctx context.Context, request core.SearchRequest) ([]providers.Token, error) {
	keyword := request.Term.String()
	if keyword == "" {
		return nil, providers.NewProviderError(ProviderName, "search term cannot be empty", nil)
	}

	log.Infof("%s [NetEase] Searching: %s", logcolors.LogSearch, keyword)

	limit := request.Limit
	if limit <= 0 {
		limit = config.Get().Configuration.SearchResultLimit
	}

	songs, err := searchSongs(ctx, keyword, limit)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "song search failed", err)
	}
	if len(songs) > limit {
		songs = songs[:limit]
	}

	tokens := make([]providers.Token, 0, len(songs))
	for _, s := range songs {
		token := providers.Token{
			Provider:   ProviderName,
			ID:         strconv.Itoa(s.ID),
			Title:      s.Name,
			Album:      s.Album.Name,
			Duration:   float64(s.Duration) / 1000,
			ArtworkURL: s.Album.PicURL,
		}
		if len(s.Artists) > 0 {
			token.Artist = s.Artists[0].Name
		}
		tokens = append(tokens, token)
	}

	log.Infof("%s [NetEase] Found %d candidates for: %s", logcolors.LogMatch, len(tokens), keyword)
	return tokens, nil
}

// Fetch retrieves the lyric bundle for a token and assembles the document.
func (p *NeteaseProvider) Fetch(ctx context.Context, token providers.Token) (*core.Lyrics, error) {
	if token.ID == "" {
		return nil, providers.NewProviderError(ProviderName, "token is missing id", nil)
	}

	bundle, err := fetchLyrics(ctx, token.ID)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to fetch lyrics", err)
	}

	var translation *core.Lyrics
	if bundle.TLyric.Lyric != "" {
		if parsed, err := core.Parse(bundle.TLyric.Lyric); err == nil {
			translation = parsed
		}
	}

	var ly *core.Lyrics
	switch {
	case bundle.KLyric.Lyric != "":
		ly, err = parseKLyric(bundle.KLyric.Lyric)
		if err != nil {
			return nil, providers.NewProviderError(ProviderName, "failed to parse karaoke lyrics", err)
		}
		if translation != nil {
			ly.ForceMerge(translation)
		}
	case bundle.Lrc.Lyric != "":
		ly, err = core.Parse(bundle.Lrc.Lyric)
		if err != nil {
			return nil, providers.NewProviderError(ProviderName, "failed to parse lyrics", err)
		}
		if translation != nil {
			ly.Merge(translation)
		}
	default:
		return nil, providers.NewProviderError(ProviderName, "no lyrics content in response", nil)
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
	if bundle.LyricUser != nil && bundle.LyricUser.Nickname != "" {
		ly.IDTags[core.IDTagLrcBy] = bundle.LyricUser.Nickname
	}
	if token.Duration > 0 {
		ly.SetLength(token.Duration)
	}

	ly.Metadata.Source = ProviderName
	ly.Metadata.ArtworkURL = token.ArtworkURL
	ly.Metadata.ProviderToken = token.ID

	log.Infof("%s [NetEase] Fetched lyrics for: %s - %s (%d lines)",
		logcolors.LogSuccess, token.Title, token.Artist, len(ly.Lines))
	return ly, nil
}

// init registers the NetEase provider with the global registry
func init() {
	providers.Register(NewProvider())
}
