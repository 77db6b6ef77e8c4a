package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"lyricskit-go/cache"
	"lyricskit-go/config"
	"lyricskit-go/logcolors"
	"lyricskit-go/middleware"
	"lyricskit-go/services/lyrics"

	// Providers register themselves with the global registry on import.
	_ "lyricskit-go/services/providers/kugou"
	_ "lyricskit-go/services/providers/lrclib"
	_ "lyricskit-go/services/providers/netease"
	_ "lyricskit-go/services/providers/qq"
)

var conf = config.Get()

var (
	store   *cache.PersistentCache
	service *lyrics.Service
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func main() {
	var err error
	store, err = cache.NewPersistentCache(conf.Configuration.CachePath, conf.FeatureFlags.CacheCompression)
	if err != nil {
		log.Fatalf("%s Failed to open cache at %s: %v", logcolors.LogCacheInit, conf.Configuration.CachePath, err)
	}
	defer store.Close()

	service = lyrics.NewDefaultService(store)

	log.Infof("%s Cache at %s (TTL %ds), breaker threshold %d, cooldown %ds",
		logcolors.LogConfig,
		conf.Configuration.CachePath,
		conf.Configuration.LyricsCacheTTLInSeconds,
		conf.Configuration.CircuitBreakerThreshold,
		conf.Configuration.CircuitBreakerCooldownSecs)

	router := mux.NewRouter()
	setupRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: false,
	})

	limiter := middleware.NewIPRateLimiter(
		rate.Limit(conf.Configuration.RateLimitPerSecond), conf.Configuration.RateLimitBurstLimit,
		rate.Limit(conf.Configuration.CachedRateLimitPerSecond), conf.Configuration.CachedRateLimitBurstLimit,
	)

	loggedRouter := middleware.LoggingMiddleware(router)
	corsHandler := c.Handler(loggedRouter)
	handler := limitMiddleware(corsHandler, limiter)

	port := conf.Configuration.Port
	log.Infof("%s Listening on port %s", logcolors.LogServer, port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
