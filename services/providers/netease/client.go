package netease

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"lyricskit-go/config"
	"lyricskit-go/logcolors"
)

const (
	// API endpoints
	songSearchURL = "http://music.163.com/api/search/pc"
	lyricsURL     = "http://music.163.com/api/song/lyric"

	userAgent = "Mozilla/5.0 (Windows NT 10.1; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.3987.132 Safari/537.36"
)

var httpClient = &http.Client{
	Timeout: time.Duration(config.Get().Configuration.ProviderTimeoutInSeconds) * time.Second,
}

func setHeaders(req *http.Request) {
	req.Header.Set("Referer", "http://music.163.com/")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cookie", "NMTID=")
}

// searchSongs searches for songs on NetEase
func searchSongs(ctx context.Context, keyword string, limit int) ([]Song, error) {
	params := url.Values{}
	params.Set("s", keyword)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("type", "1")

	requestURL := songSearchURL + "?" + params.Encode()

	log.Debugf("%s Searching songs: %s", logcolors.LogSearch, keyword)

	req, err := http.NewRequestWithContext(ctx, "POST", requestURL, strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req)

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

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return searchResp.Result.Songs, nil
}

// fetchLyrics fetches the lyric bundle for a song ID
func fetchLyrics(ctx context.Context, id string) (*LyricsResponse, error) {
	params := url.Values{}
	params.Set("id", id)
	params.Set("lv", "1")
	params.Set("kd", "1")
	params.Set("tv", "-1")

	requestURL := lyricsURL + "?" + params.Encode()

	log.Debugf("%s Fetching lyrics ID: %s", logcolors.LogLyrics, id)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req)

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

	var lyricsResp LyricsResponse
	if err := json.Unmarshal(body, &lyricsResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &lyricsResp, nil
}
