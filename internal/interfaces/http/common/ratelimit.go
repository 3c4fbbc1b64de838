package common

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/taka-shaka/matching-site-sub001/internal/metrics"
	"go.uber.org/zap"
)

// RateLimit limits requests per client IP and endpoint with go-chi/httprate. Rejections are
// counted per path and answered with 429. A non-positive limit disables it.
func RateLimit(requests int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP, httprate.KeyByEndpoint),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			if logger != nil {
				logger.Warn("rate limit exceeded", zap.String("path", r.URL.Path), zap.String("remote", r.RemoteAddr))
			}
			WriteJSON(logger, w, http.StatusTooManyRequests, map[string]string{"error": "リクエストが多すぎます。しばらく時間をおいてから再度お試しください"})
		}),
	)
}
