package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"lyricskit-go/cache"
	"lyricskit-go/circuitbreaker"
	"lyricskit-go/config"
	"lyricskit-go/core"
	"lyricskit-go/logcolors"
	"lyricskit-go/services/providers"
)

// ErrNoLyricsFound is returned by BestMatch when no provider yields a
// document.
var ErrNoLyricsFound = fmt.Errorf("no lyrics found")

// Service fans a search request out over all registered providers, guarding
// each with a rate limiter and a circuit breaker, and aggregates the fetched
// documents sorted by quality. Per-provider results are cached.
type Service struct {
	registry *providers.Registry
	cache    *cache.PersistentCache
	limiters map[string]*rate.Limiter
	breakers map[string]*circuitbreaker.CircuitBreaker
	mu       sync.Mutex
}

// NewService creates a service over a registry. The cache is optional; a nil
// cache disables result caching.
func NewService(registry *providers.Registry, c *cache.PersistentCache) *Service {
	conf := config.Get().Configuration

	s := &Service{
		registry: registry,
		cache:    c,
		limiters: make(map[string]*rate.Limiter),
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
	for _, name := range registry.List() {
		s.limiters[name] = rate.NewLimiter(
			rate.Limit(conf.ProviderRateLimitPerSecond),
			conf.ProviderRateLimitBurst,
		)
		s.breakers[name] = circuitbreaker.New(circuitbreaker.Config{
			Name:      name,
			Threshold: conf.CircuitBreakerThreshold,
			Cooldown:  time.Duration(conf.CircuitBreakerCooldownSecs) * time.Second,
		})
	}
	return s
}

// NewDefaultService creates a service over the global provider registry.
func NewDefaultService(c *cache.PersistentCache) *Service {
	return NewService(providers.GetRegistry(), c)
}

// Search fans the request out over every provider and returns all fetched
// documents sorted by descending quality. Provider failures are tolerated;
// an empty result with a nil error means nothing matched anywhere.
func (s *Service) Search(ctx context.Context, request core.SearchRequest) ([]*core.Lyrics, error) {
	if request.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, request.Timeout)
		defer cancel()
	}

	log.Infof("%s Searching all providers: %s", logcolors.LogRequest, request.String())

	var results []*core.Lyrics
	g, ctx := errgroup.WithContext(ctx)

	for _, name := range s.registry.List() {
		name := name
		g.Go(func() error {
			docs := s.searchProvider(ctx, name, request)
			if len(docs) == 0 {
				return nil
			}
			s.mu.Lock()
			results = append(results, docs...)
			s.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ly := range results {
		ly.Quality()
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Quality() > results[j].Quality()
	})

	log.Infof("%s Aggregated %d documents for: %s", logcolors.LogSuccess, len(results), request.Term.String())
	return results, nil
}

// BestMatch returns the highest quality document for a request.
func (s *Service) BestMatch(ctx context.Context, request core.SearchRequest) (*core.Lyrics, error) {
	results, err := s.Search(ctx, request)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoLyricsFound
	}
	return results[0], nil
}

// searchProvider runs one provider through cache, breaker and limiter.
// Failures are logged and swallowed so one provider cannot sink the fan-out.
func (s *Service) searchProvider(ctx context.Context, name string, request core.SearchRequest) []*core.Lyrics {
	key := cacheKey(name, request)
	if docs, ok := s.cachedResults(key); ok {
		log.Debugf("%s Hit for %s", logcolors.LogCacheLyrics, key)
		return docs
	}

	breaker := s.breakers[name]
	if breaker != nil && !breaker.Allow() {
		log.Warnf("%s Provider %s is open, skipping", logcolors.LogCircuitBreaker, name)
		return nil
	}

	if limiter := s.limiters[name]; limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}
	}

	docs, err := s.fetchAll(ctx, name, request)
	if err != nil {
		if breaker != nil {
			breaker.RecordFailure()
		}
		log.Warnf("%s Provider %s failed: %v", logcolors.LogWarning, name, err)
		return nil
	}
	if breaker != nil {
		breaker.RecordSuccess()
	}

	s.storeResults(key, docs)
	return docs
}

// fetchAll searches one provider and fetches every returned token.
// Individual fetch failures are tolerated as long as the search succeeded.
func (s *Service) fetchAll(ctx context.Context, name string, request core.SearchRequest) ([]*core.Lyrics, error) {
	p, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}

	tokens, err := p.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var docs []*core.Lyrics
	for i, token := range tokens {
		ly, err := p.Fetch(ctx, token)
		if err != nil {
			log.Warnf("%s %s fetch failed for %s: %v", logcolors.LogWarning, name, token.ID, err)
			continue
		}
		ly.Metadata.Request = &request
		ly.Metadata.SearchIndex = i
		docs = append(docs, ly)
	}
	return docs, nil
}

func cacheKey(provider string, request core.SearchRequest) string {
	return fmt.Sprintf("lyrics:%s:%s:%.0f", provider, request.Term.String(), request.Duration)
}

func (s *Service) cachedResults(key string) ([]*core.Lyrics, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	var docs []*core.Lyrics
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		log.Warnf("%s Corrupt cache entry %s: %v", logcolors.LogCache, key, err)
		return nil, false
	}
	return docs, true
}

func (s *Service) storeResults(key string, docs []*core.Lyrics) {
	if s.cache == nil || len(docs) == 0 {
		return
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return
	}
	ttl := time.Duration(config.Get().Configuration.LyricsCacheTTLInSeconds) * time.Second
	if err := s.cache.SetWithTTL(key, string(raw), ttl); err != nil {
		log.Warnf("%s Failed to store %s: %v", logcolors.LogCache, key, err)
	}
}

// CachedSearch serves a request from cached per-provider results only,
// without touching any provider. Used when a client is over its normal
// rate limit tier but still within the cached tier.
func (s *Service) CachedSearch(request core.SearchRequest) []*core.Lyrics {
	var results []*core.Lyrics
	for _, name := range s.registry.List() {
		if docs, ok := s.cachedResults(cacheKey(name, request)); ok {
			results = append(results, docs...)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Quality() > results[j].Quality()
	})
	return results
}

// BreakerStates reports the circuit breaker state per provider.
func (s *Service) BreakerStates() map[string]string {
	states := make(map[string]string, len(s.breakers))
	for name, breaker := range s.breakers {
		states[name] = breaker.State().String()
	}
	return states
}

// BreakerStatus holds the detailed circuit breaker view for one provider.
type BreakerStatus struct {
	State     string `json:"state"`
	Failures  int    `json:"failures"`
	Threshold int    `json:"threshold"`
	RetryInMs int64  `json:"retry_in_ms,omitempty"`
}

// BreakerStatuses reports detailed circuit breaker info per provider.
func (s *Service) BreakerStatuses() map[string]BreakerStatus {
	statuses := make(map[string]BreakerStatus, len(s.breakers))
	for name, breaker := range s.breakers {
		state, failures, _ := breaker.Stats()
		status := BreakerStatus{
			State:     state.String(),
			Failures:  failures,
			Threshold: breaker.Threshold(),
		}
		if breaker.IsOpen() {
			status.RetryInMs = breaker.TimeUntilRetry().Milliseconds()
		}
		statuses[name] = status
	}
	return statuses
}

// ResetBreakers closes every provider circuit breaker.
func (s *Service) ResetBreakers() {
	for _, breaker := range s.breakers {
		breaker.Reset()
	}
}
