package kugou

// SearchResponse represents the response from Kugou lyrics search API
type SearchResponse struct {
	Status  int    `json:"status"`
	Info    string `json:"info"`
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`

	Candidates []LyricsCandidate `json:"candidates"`
}

// LyricsCandidate represents a lyrics match candidate
type LyricsCandidate struct {
	ID          string `json:"id"`
	AccessKey   string `json:"accesskey"`
	Singer      string `json:"singer"`
	Song        string `json:"song"`
	Duration    int    `json:"duration"` // Duration in milliseconds
	Language    string `json:"language"`
	KRCType     int    `json:"krctype"` // 1 = word-synced
	Score       int    `json:"score"`
	ProductFrom string `json:"product_from"`
}

// DownloadResponse represents the response from Kugou lyrics download API.
// Content carries the base64 encoded KRC payload.
type DownloadResponse struct {
	Status    int    `json:"status"`
	Info      string `json:"info"`
	ErrorCode int    `json:"error_code"`
	Content   string `json:"content"`
	Fmt       string `json:"fmt"`
	Charset   string `json:"charset"`
}

// krcHeader is the JSON payload of the "language" ID tag inside a KRC
// document. It carries line-indexed translations.
type krcHeader struct {
	Content []krcHeaderContent `json:"content"`
}

type krcHeaderContent struct {
	Language     int        `json:"language"`
	Type         int        `json:"type"`
	LyricContent [][]string `json:"lyricContent"`
}
