package netease

// SearchResponse represents the response from the NetEase song search API
type SearchResponse struct {
	Code   int          `json:"code"`
	Result SearchResult `json:"result"`
}

type SearchResult struct {
	Songs []Song `json:"songs"`
	Count int    `json:"songCount"`
}

// Song is one track entry from a search response
type Song struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	Album   Album    `json:"album"`
	// Duration is the track duration in milliseconds
	Duration int `json:"duration"`
}

type Artist struct {
	Name string `json:"name"`
}

type Album struct {
	Name   string `json:"name"`
	PicURL string `json:"picUrl"`
}

// LyricsResponse represents the response from the NetEase lyric API.
// klyric carries the karaoke word-timed variant, tlyric the translation.
type LyricsResponse struct {
	Code      int        `json:"code"`
	Lrc       LyricBlock `json:"lrc"`
	KLyric    LyricBlock `json:"klyric"`
	TLyric    LyricBlock `json:"tlyric"`
	LyricUser *User      `json:"lyricUser"`
}

type LyricBlock struct {
	Lyric string `json:"lyric"`
}

type User struct {
	Nickname string `json:"nickname"`
}
