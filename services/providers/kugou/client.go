package kugou

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
	"lyricskit-go/logcolors"
)

const (
	// API endpoints
	lyricsSearchURL   = "https://krcs.kugou.com/search"
	lyricsDownloadURL = "https://krcs.kugou.com/download"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var httpClient = &http.Client{
	Timeout: time.Duration(config.Get().Configuration.ProviderTimeoutInSeconds) * time.Second,
}

// searchLyrics searches for lyrics candidates from Kugou
func searchLyrics(ctx context.Context, keyword string, durationMs int) ([]LyricsCandidate, error) {
	params := url.Values{}
	params.Set("ver", "1")
	params.Set("man", "yes")
	params.Set("client", "pc")
	params.Set("keyword", keyword)
	if durationMs > 0 {
		params.Set("duration", strconv.Itoa(durationMs))
	}

	requestURL := lyricsSearchURL + "?" + params.Encode()

	log.Debugf("%s Searching lyrics: %s", logcolors.LogSearch, keyword)

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

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if searchResp.Status != 200 {
		return nil, fmt.Errorf("API error: %s (code: %d)", searchResp.ErrMsg, searchResp.ErrCode)
	}

	return searchResp.Candidates, nil
}

// downloadKRC downloads the base64 encoded KRC content by ID and access key
func downloadKRC(ctx context.Context, id, accessKey string) (string, error) {
	params := url.Values{}
	params.Set("ver", "1")
	params.Set("client", "pc")
	params.Set("id", id)
	params.Set("accesskey", accessKey)
	params.Set("fmt", "krc")
	params.Set("charset", "utf8")

	requestURL := lyricsDownloadURL + "?" + params.Encode()

	log.Debugf("%s Downloading lyrics ID: %s", logcolors.LogLyrics, id)

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var downloadResp DownloadResponse
	if err := json.Unmarshal(body, &downloadResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if downloadResp.Status != 200 {
		return "", fmt.Errorf("API error: %s (code: %d)", downloadResp.Info, downloadResp.ErrorCode)
	}

	if downloadResp.Content == "" {
		return "", fmt.Errorf("lyrics content is empty")
	}

	return downloadResp.Content, nil
}
