package qq

// SearchResponse represents the response from the QQ Music desktop search API
type SearchResponse struct {
	Req1 struct {
		Data struct {
			Body struct {
				Song struct {
					List []Song `json:"list"`
				} `json:"song"`
			} `json:"body"`
		} `json:"data"`
	} `json:"req_1"`
}

// Song is one track entry from a search response
type Song struct {
	ID    int      `json:"id"`
	Mid   string   `json:"mid"`
	Title string   `json:"title"`
	Sings []Singer `json:"singer"`
	Album Album    `json:"album"`
	// Interval is the track duration in seconds
	Interval int `json:"interval"`
}

type Singer struct {
	Title string `json:"title"`
}

type Album struct {
	Title string `json:"title"`
}

// LyricsResponse represents the jsonp payload from the QQ lyric API.
// Lyric and Trans are base64 encoded LRC documents.
type LyricsResponse struct {
	RetCode int    `json:"retcode"`
	Lyric   string `json:"lyric"`
	Trans   string `json:"trans"`
}
