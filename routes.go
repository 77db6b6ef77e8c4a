package main

import (
	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API
func setupRoutes(router *mux.Router) {
	// Search endpoints
	router.HandleFunc("/search", searchHandler)
	router.HandleFunc("/bestMatch", bestMatchHandler)

	// Transliteration endpoints
	router.HandleFunc("/align", alignHandler)
	router.HandleFunc("/typing", typingHandler)

	// Provider endpoints
	router.HandleFunc("/providers", listProviders)

	// Cache management endpoints
	router.HandleFunc("/cache", getCacheStats)
	router.HandleFunc("/cache/clear", clearCache)

	// Circuit breaker endpoints
	router.HandleFunc("/circuit-breaker", getCircuitBreakerStatus)
	router.HandleFunc("/circuit-breaker/reset", resetCircuitBreaker)

	// Health endpoint
	router.HandleFunc("/health", getHealthStatus)

	// Help endpoint
	router.HandleFunc("/", helpHandler)
}
