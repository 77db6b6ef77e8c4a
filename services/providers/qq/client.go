package qq

import (
	"bytes"
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
	songSearchURL = "https://u.y.qq.com/cgi-bin/musicu.fcg"
	lyricsURL     = "https://c.y.qq.com/lyric/fcgi-bin/fcg_query_lyric_new.fcg"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/63.0.3239.132 Safari/537.36"
)

var httpClient = &http.Client{
	Timeout: time.Duration(config.Get().Configuration.ProviderTimeoutInSeconds) * time.Second,
}

func setHeaders(req *http.Request) {
	req.Header.Set("Referer", "https://c.y.qq.com/")
	req.Header.Set("User-Agent", userAgent)
}

// searchSongs searches for songs on QQ Music via the desktop search service
func searchSongs(ctx context.Context, query string) ([]Song, error) {
	payload := map[string]interface{}{
		"req_1": map[string]interface{}{
			"method": "DoSearchForQQMusicDesktop",
			"module": "music.search.SearchCgiService",
			"param": map[string]interface{}{
				"num_per_page": "20",
				"page_num":     "1",
				"query":        query,
				"search_type":  0,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	log.Debugf("%s Searching songs: %s", logcolors.LogSearch, query)

	req, err := http.NewRequestWithContext(ctx, "POST", songSearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(data, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return searchResp.Req1.Data.Body.Song.List, nil
}

// fetchLyrics fetches the base64 lyric bundle for a song mid. The endpoint
// answers with a jsonp callback wrapper that has to be stripped first.
func fetchLyrics(ctx context.Context, mid string) (*LyricsResponse, error) {
	form := url.Values{}
	form.Set("callback", "MusicJsonCallback_lrc")
	form.Set("pcachetime", strconv.FormatInt(time.Now().UnixMilli(), 10))
	form.Set("songmid", mid)
	form.Set("g_tk", "5381")
	form.Set("jsonpCallback", "MusicJsonCallback_lrc")
	form.Set("loginUin", "0")
	form.Set("hostUin", "0")
	form.Set("format", "jsonp")
	form.Set("inCharset", "utf8")
	form.Set("outCharset", "utf8")
	form.Set("notice", "0")
	form.Set("platform", "yqq")
	form.Set("needNewCode", "0")

	log.Debugf("%s Fetching lyrics mid: %s", logcolors.LogLyrics, mid)

	req, err := http.NewRequestWithContext(ctx, "POST", lyricsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	stripped, err := stripJSONP(string(data))
	if err != nil {
		return nil, err
	}

	var lyricsResp LyricsResponse
	if err := json.Unmarshal([]byte(stripped), &lyricsResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &lyricsResp, nil
}

// stripJSONP extracts the JSON object from a "callback({...})" wrapper.
func stripJSONP(body string) (string, error) {
	start := strings.Index(body, "(")
	end := strings.LastIndex(body, ")")
	if start < 0 || end < start {
		return "", fmt.Errorf("response is not a jsonp callback")
	}
	return body[start+1 : end], nil
}
