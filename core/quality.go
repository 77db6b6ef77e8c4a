package core

import (
	"math"
	"strings"

	"lyricskit-go/utils"
)

// Quality factor constants, tuned for ranking provider results against a
// search request.
const (
	translationFactor   = 0.1
	wordTimeTagFactor   = 0.1
	matchedArtistFactor = 1.3
	matchedTitleFactor  = 1.5
	noArtistFactor      = 0.7
	noTitleFactor       = 0.7
	noDurationFactor    = 0.7
)

// Quality scores the document against the search request that produced it.
// The score is cached on the metadata so repeated sorting is cheap.
func (ly *Lyrics) Quality() float64 {
	if ly.Metadata.Quality != nil {
		return *ly.Metadata.Quality
	}
	quality := ly.artistQuality() + ly.titleQuality() + ly.durationQuality()
	if ly.Metadata.HasTranslation() {
		quality += translationFactor
	}
	if ly.Metadata.HasAttachmentTag(TagTimeTag) {
		quality += wordTimeTagFactor
	}
	ly.Metadata.Quality = &quality
	return quality
}

// IsMatched reports whether the document's own title and artist tags agree
// with the search request.
func (ly *Lyrics) IsMatched() bool {
	artist, hasArtist := ly.IDTags[IDTagArtist]
	title, hasTitle := ly.IDTags[IDTagTitle]
	if !hasArtist || !hasTitle {
		return false
	}
	request := ly.Metadata.Request
	if request == nil {
		return false
	}
	term := request.Term
	if term.IsKeyword() {
		return utils.IsCaseInsensitiveSimilar(title, term.Keyword) &&
			utils.IsCaseInsensitiveSimilar(artist, term.Keyword)
	}
	return utils.IsCaseInsensitiveSimilar(title, term.Title) &&
		utils.IsCaseInsensitiveSimilar(artist, term.Artist)
}

func (ly *Lyrics) artistQuality() float64 {
	artist, ok := ly.IDTags[IDTagArtist]
	if !ok {
		return noArtistFactor
	}
	request := ly.Metadata.Request
	if request == nil {
		return noArtistFactor
	}
	term := request.Term
	if term.IsKeyword() {
		if strings.Contains(term.Keyword, artist) {
			return matchedArtistFactor
		}
		return utils.SimilarityIn(artist, term.Keyword)
	}
	if artist == term.Artist {
		return matchedArtistFactor
	}
	return utils.Similarity(artist, term.Artist)
}

func (ly *Lyrics) titleQuality() float64 {
	title, ok := ly.IDTags[IDTagTitle]
	if !ok {
		return noTitleFactor
	}
	request := ly.Metadata.Request
	if request == nil {
		return noTitleFactor
	}
	term := request.Term
	if term.IsKeyword() {
		if strings.Contains(term.Keyword, title) {
			return matchedTitleFactor
		}
		return utils.SimilarityIn(title, term.Keyword)
	}
	if title == term.Title {
		return matchedTitleFactor
	}
	return utils.Similarity(title, term.Title)
}

func (ly *Lyrics) durationQuality() float64 {
	request := ly.Metadata.Request
	if request == nil || request.Duration == 0 {
		return noDurationFactor
	}
	length, _ := ly.Length()
	delta := math.Abs(request.Duration - length)
	switch {
	case delta <= 1:
		return 1
	case delta <= 4:
		return 0.9
	case delta <= 10:
		return 0.8
	default:
		return 0.7
	}
}
