package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"lyricskit-go/config"
	"lyricskit-go/core"
	"lyricskit-go/logcolors"
	"lyricskit-go/services/providers"
)

// ProviderName is the identifier for the LrcLib provider
const ProviderName = "lrclib"

const (
	searchURL = "https://lrclib.net/api/search"
	fetchURL  = "https://lrclib.net/api/get/"

	userAgent = "lyricskit-go (https://lrclib.net)"
)

var httpClient = &http.Client{
	Timeout: time.Duration(config.Get().Configuration.ProviderTimeoutInSeconds) * time.Second,
}

// Record is one entry from the LrcLib search and get APIs
type Record struct {
	ID           int64   `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// LrcLibProvider implements the providers.Provider interface for lrclib.net,
// an open database of synced LRC lyrics.
type LrcLibProvider struct{}

// NewProvider creates a new LrcLib provider instance
func NewProvider() *LrcLibProvider {
	return &LrcLibProvider{}
}

// Name returns the provider identifier
func (p *LrcLibProvider) Name() string {
	return ProviderName
}

// Search queries the LrcLib search API. Entries without synced lyrics are
// dropped since only timed documents are useful downstream.
func (p *LrcLibProvider) Search(ctx context.Context, request core.SearchRequest) ([]providers.Token, error) {
	params := url.Values{}
	if request.Term.IsKeyword() {
		params.Set("q", request.Term.Keyword)
	} else {
		params.Set("track_name", request.Term.Title)
		params.Set("artist_name", request.Term.Artist)
	}

	log.Infof("%s [LrcLib] Searching: %s", logcolors.LogSearch, request.Term.String())

	body, err := getJSON(ctx, searchURL+"?"+params.Encode())
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "search failed", err)
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to parse response", err)
	}

	limit := request.Limit
	if limit <= 0 {
		limit = config.Get().Configuration.SearchResultLimit
	}

	tokens := make([]providers.Token, 0, len(records))
	for _, r := range records {
		if r.SyncedLyrics == "" {
			continue
		}
		if len(tokens) >= limit {
			break
		}
		id := strconv.FormatInt(r.ID, 10)
		tokens = append(tokens, providers.Token{
			Provider:  ProviderName,
			ID:        id,
			Title:     r.TrackName,
			Artist:    r.ArtistName,
			Album:     r.AlbumName,
			Duration:  r.Duration,
			RemoteURL: fetchURL + id,
		})
	}

	log.Infof("%s [LrcLib] Found %d synced candidates for: %s",
		logcolors.LogMatch, len(tokens), request.Term.String())
	return tokens, nil
}

// Fetch retrieves a record by ID and parses its synced lyrics.
func (p *LrcLibProvider) Fetch(ctx context.Context, token providers.Token) (*core.Lyrics, error) {
	if token.ID == "" {
		return nil, providers.NewProviderError(ProviderName, "token is missing id", nil)
	}

	body, err := getJSON(ctx, fetchURL+token.ID)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to fetch record", err)
	}

	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to parse response", err)
	}
	if record.SyncedLyrics == "" {
		return nil, providers.NewProviderError(ProviderName, "record has no synced lyrics", nil)
	}

	ly, err := core.Parse(record.SyncedLyrics)
	if err != nil {
		return nil, providers.NewProviderError(ProviderName, "failed to parse lyrics", err)
	}

	if record.TrackName != "" {
		ly.IDTags[core.IDTagTitle] = record.TrackName
	}
	if record.ArtistName != "" {
		ly.IDTags[core.IDTagArtist] = record.ArtistName
	}
	if record.AlbumName != "" {
		ly.IDTags[core.IDTagAlbum] = record.AlbumName
	}
	if record.Duration > 0 {
		ly.SetLength(record.Duration)
	}

	ly.Metadata.Source = ProviderName
	ly.Metadata.RemoteURL = fetchURL + token.ID
	ly.Metadata.ProviderToken = token.ID

	log.Infof("%s [LrcLib] Fetched lyrics for: %s - %s (%d lines)",
		logcolors.LogSuccess, record.TrackName, record.ArtistName, len(ly.Lines))
	return ly, nil
}

func getJSON(ctx context.Context, requestURL string) ([]byte, error) {
	log.Debugf("%s GET %s", logcolors.LogHTTP, requestURL)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// init registers the LrcLib provider with the global registry
func init() {
	providers.Register(NewProvider())
}
