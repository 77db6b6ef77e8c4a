package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"

	"lyricskit-go/core"
	"lyricskit-go/logcolors"
	"lyricskit-go/services/lyrics"
	"lyricskit-go/services/providers"
	"lyricskit-go/transliterate"
)

// parseSearchRequest builds a search request from query parameters.
// Either q= (keyword search) or title= plus optional artist= is required.
// duration= is the track length in seconds and improves match quality.
func parseSearchRequest(r *http.Request) (core.SearchRequest, error) {
	q := r.URL.Query()

	var term core.SearchTerm
	if keyword := q.Get("q"); keyword != "" {
		term = core.NewKeywordTerm(keyword)
	} else if title := q.Get("title"); title != "" {
		term = core.NewInfoTerm(title, q.Get("artist"))
	} else {
		return core.SearchRequest{}, errors.New("missing q or title parameter")
	}

	duration, _ := strconv.ParseFloat(q.Get("duration"), 64)
	request := core.NewSearchRequest(term, duration)

	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			request.Limit = n
		}
	}
	return request, nil
}

func toResult(ly *core.Lyrics, position int) LyricsResult {
	return LyricsResult{
		Source:   ly.Metadata.Source,
		Quality:  ly.Quality(),
		Artwork:  ly.Metadata.ArtworkURL,
		Remote:   ly.Metadata.RemoteURL,
		Lyrics:   ly.String(),
		Matched:  ly.IsMatched(),
		Position: position,
	}
}

func cacheOnly(r *http.Request) bool {
	v, _ := r.Context().Value(cacheOnlyModeKey).(bool)
	return v
}

// searchHandler fans the request out over all providers and returns every
// fetched document sorted by quality.
func searchHandler(w http.ResponseWriter, r *http.Request) {
	request, err := parseSearchRequest(r)
	if err != nil {
		Respond(w, r).Error(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var docs []*core.Lyrics
	cacheStatus := "MISS"
	if cacheOnly(r) {
		docs = service.CachedSearch(request)
		cacheStatus = "ONLY"
	} else {
		docs, err = service.Search(r.Context(), request)
		if err != nil {
			Respond(w, r).Error(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
	}

	response := SearchResponse{Count: len(docs), Results: make([]LyricsResult, 0, len(docs))}
	for i, ly := range docs {
		response.Results = append(response.Results, toResult(ly, i))
	}
	Respond(w, r).SetCacheStatus(cacheStatus).JSON(response)
}

// bestMatchHandler returns only the highest quality document.
func bestMatchHandler(w http.ResponseWriter, r *http.Request) {
	request, err := parseSearchRequest(r)
	if err != nil {
		Respond(w, r).Error(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var ly *core.Lyrics
	if cacheOnly(r) {
		docs := service.CachedSearch(request)
		if len(docs) == 0 {
			Respond(w, r).SetCacheStatus("ONLY").Error(http.StatusNotFound, ErrorResponse{Error: lyrics.ErrNoLyricsFound.Error()})
			return
		}
		ly = docs[0]
	} else {
		ly, err = service.BestMatch(r.Context(), request)
		if errors.Is(err, lyrics.ErrNoLyricsFound) {
			Respond(w, r).Error(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			Respond(w, r).Error(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
	}

	Respond(w, r).SetProvider(ly.Metadata.Source).JSON(toResult(ly, 0))
}

// alignHandler aligns the furigana reading of a document against a
// romanized reference, one run list per timed line.
func alignHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		Respond(w, r).Error(http.StatusMethodNotAllowed, ErrorResponse{Error: "POST required"})
		return
	}

	var request AlignRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	ly, err := core.Parse(request.Lyrics)
	if err != nil {
		Respond(w, r).Error(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	runs := transliterate.AlignFurigana(ly.Lines, request.Romaji)
	if runs == nil {
		runs = [][]transliterate.Run{}
	}
	Respond(w, r).JSON(map[string]interface{}{"lines": runs})
}

// typingHandler builds the typing animation sequence for annotated words.
func typingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		Respond(w, r).Error(http.StatusMethodNotAllowed, ErrorResponse{Error: "POST required"})
		return
	}

	var request TypingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if len(request.Words) == 0 {
		Respond(w, r).Error(http.StatusBadRequest, ErrorResponse{Error: "no words given"})
		return
	}

	words := transliterate.BuildAnimationSequence(request.Words, request.Language)
	Respond(w, r).JSON(map[string]interface{}{"words": words})
}

// listProviders returns the registered provider names.
func listProviders(w http.ResponseWriter, r *http.Request) {
	names := providers.List()
	sort.Strings(names)
	Respond(w, r).JSON(map[string]interface{}{"providers": names})
}

// getHealthStatus reports service liveness and basic cache numbers.
func getHealthStatus(w http.ResponseWriter, r *http.Request) {
	numKeys, sizeKB := store.Stats()
	Respond(w, r).JSON(map[string]interface{}{
		"status":     "ok",
		"providers":  len(providers.List()),
		"cache_keys": numKeys,
		"cache_kb":   sizeKB,
	})
}

// getCircuitBreakerStatus reports per-provider breaker state.
func getCircuitBreakerStatus(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(service.BreakerStatuses())
}

// resetCircuitBreaker closes all breakers.
func resetCircuitBreaker(w http.ResponseWriter, r *http.Request) {
	service.ResetBreakers()
	log.Infof("%s All breakers reset via API", logcolors.LogCircuitBreaker)
	Respond(w, r).JSON(map[string]string{"status": "reset"})
}

// getCacheStats reports key count and approximate size.
func getCacheStats(w http.ResponseWriter, r *http.Request) {
	numKeys, sizeKB := store.Stats()
	Respond(w, r).JSON(CacheStatsResponse{
		NumberOfKeys: numKeys,
		SizeInKB:     sizeKB,
		SizeInMB:     float64(sizeKB) / 1024.0,
	})
}

// clearCache drops every cached entry.
func clearCache(w http.ResponseWriter, r *http.Request) {
	if err := store.Clear(); err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	log.Infof("%s Cache cleared via API", logcolors.LogCacheClear)
	Respond(w, r).JSON(map[string]string{"status": "cleared"})
}

// helpHandler documents the available endpoints.
func helpHandler(w http.ResponseWriter, r *http.Request) {
	Respond(w, r).JSON(map[string]interface{}{
		"service": "lyricskit-go",
		"endpoints": map[string]string{
			"/search":                "GET: aggregate lyrics from all providers (q= or title=&artist=, duration=, limit=)",
			"/bestMatch":             "GET: highest quality document for a query",
			"/align":                 "POST: align furigana readings against romaji reference lines",
			"/typing":                "POST: build typing animation sequences for annotated words",
			"/providers":             "GET: registered provider names",
			"/cache":                 "GET: cache statistics",
			"/cache/clear":           "GET: drop all cached entries",
			"/circuit-breaker":       "GET: per-provider circuit breaker state",
			"/circuit-breaker/reset": "GET: close all circuit breakers",
			"/health":                "GET: service health",
		},
	})
}
