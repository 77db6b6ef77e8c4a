package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		Port                      string `envconfig:"PORT" default:"8080"`
		RateLimitPerSecond        int    `envconfig:"RATE_LIMIT_PER_SECOND" default:"2"`
		RateLimitBurstLimit       int    `envconfig:"RATE_LIMIT_BURST_LIMIT" default:"5"`
		CachedRateLimitPerSecond  int    `envconfig:"CACHED_RATE_LIMIT_PER_SECOND" default:"10"`
		CachedRateLimitBurstLimit int    `envconfig:"CACHED_RATE_LIMIT_BURST_LIMIT" default:"20"`
		LyricsCacheTTLInSeconds   int    `envconfig:"LYRICS_CACHE_TTL_IN_SECONDS" default:"86400"`
		CachePath                 string `envconfig:"CACHE_PATH" default:"lyrics-cache.db"`

		// Provider fan-out configuration
		ProviderTimeoutInSeconds   int     `envconfig:"PROVIDER_TIMEOUT_IN_SECONDS" default:"10"`
		ProviderRateLimitPerSecond int     `envconfig:"PROVIDER_RATE_LIMIT_PER_SECOND" default:"4"`
		ProviderRateLimitBurst     int     `envconfig:"PROVIDER_RATE_LIMIT_BURST" default:"8"`
		SearchResultLimit          int     `envconfig:"SEARCH_RESULT_LIMIT" default:"6"`
		MinSimilarityScore         float64 `envconfig:"MIN_SIMILARITY_SCORE" default:"0.6"`
		DurationMatchDeltaMs       int     `envconfig:"DURATION_MATCH_DELTA_MS" default:"2000"` // Strict duration filter: reject tracks outside this delta (in ms)
		CircuitBreakerThreshold    int     `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5"`   // Consecutive failures before circuit opens
		CircuitBreakerCooldownSecs int     `envconfig:"CIRCUIT_BREAKER_COOLDOWN_SECS" default:"300"` // Seconds to wait before retrying (default: 5 minutes)
	}

	FeatureFlags struct {
		CacheCompression bool `envconfig:"FF_CACHE_COMPRESSION" default:"true"`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}
