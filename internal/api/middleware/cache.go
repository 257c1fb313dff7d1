package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/medoraclinic/medora-site/backend/internal/domain/providers"
	"github.com/medoraclinic/medora-site/backend/internal/i18n"
	"github.com/medoraclinic/medora-site/backend/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware stores successful public GET responses in the shared
// cache. Keys embed the path so admin writes can purge a route.
type CacheMiddleware struct {
	cache        providers.CacheProvider
	metrics      *observability.Metrics
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a new cache middleware for the public read
// routes, all sharing ttlSeconds
func NewCacheMiddleware(cache providers.CacheProvider, metrics *observability.Metrics, ttlSeconds int) *CacheMiddleware {
	route := CacheConfig{TTLSeconds: ttlSeconds, Enabled: true}
	return &CacheMiddleware{
		cache:   cache,
		metrics: metrics,
		routeConfigs: map[string]CacheConfig{
			"/api/procedures":     route,
			"/api/procedures/":    route,
			"/api/cases":          route,
			"/api/surgeons":       route,
			"/api/surgeon-detail": route,
			"/api/surgeons-full":  route,
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		cacheKey := CacheKey(r)

		cached, err := m.cache.Get(ctx, cacheKey)
		if err == nil {
			if m.metrics != nil {
				observability.RecordCacheHit(ctx, m.metrics, r.URL.Path)
			}
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Cache-Control", "public, max-age=86400")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", cacheKey).Msg("cache read failed")
		}
		if m.metrics != nil {
			observability.RecordCacheMiss(ctx, m.metrics, r.URL.Path)
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}

		next.ServeHTTP(recorder, r)

		// Only cache successful responses
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(ctx, cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache response")
			} else {
				log.Debug().Str("key", cacheKey).Int("ttl", config.TTLSeconds).Msg("cached response")
			}
		}
	})
}

// getRouteConfig gets the cache configuration for a route
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	if config, exists := m.routeConfigs[path]; exists {
		return config
	}

	// Prefix match for dynamic routes (e.g., /api/procedures/{name})
	for pattern, config := range m.routeConfigs {
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) {
			return config
		}
	}

	return CacheConfig{Enabled: false}
}

// CacheKey is ResponseCachePrefix + path + ":" + hash of the sorted query and
// the negotiated language
func CacheKey(r *http.Request) string {
	query := r.URL.Query()
	if query.Get("lang") == "" {
		query.Set("lang", i18n.Normalize(r.Header.Get("Accept-Language")))
	}

	hash := sha256.Sum256([]byte(query.Encode()))
	return providers.ResponseCachePrefix + r.URL.Path + ":" + hex.EncodeToString(hash[:16])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
