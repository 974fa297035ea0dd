package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"govitrine/internal/pkg/cache"
	"govitrine/internal/pkg/logger"
)

// RateLimiter limita as requisições por IP em janelas fixas (contador no Redis).
// Falha do Redis não derruba a API: a requisição segue e o erro é registrado.
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip

			count, err := client.Incr(r.Context(), key, window)
			if err != nil {
				log.Error("Falha no contador de rate limit", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			if count > limit {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				log.Warn("Rate limit excedido", map[string]interface{}{"ip": ip, "count": count})
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-count))
			next.ServeHTTP(w, r)
		})
	}
}
