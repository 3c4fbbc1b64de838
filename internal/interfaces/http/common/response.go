package common

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"go.uber.org/zap"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Warn("JSON エンコードに失敗", zap.Error(err))
	}
}

// WriteError renders err as {"error": "..."} with the status of its kind.
// Server-side failures are logged with the cause; clients only see the message.
func WriteError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	WriteJSON(logger, w, status, map[string]string{"error": message})
}

// WriteSuccess renders a mutation result as {"success": true, key: value}.
func WriteSuccess(logger *zap.Logger, w http.ResponseWriter, status int, key string, value any) {
	payload := map[string]any{"success": true}
	if key != "" {
		payload[key] = value
	}
	WriteJSON(logger, w, status, payload)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrRecordMissing):
		return http.StatusUnauthorized, "ログインしてください"
	case errors.Is(err, auth.ErrWrongRole):
		return http.StatusUnauthorized, "このページにアクセスする権限がありません"
	}
	return domain.HTTPStatus(err), domain.PublicMessage(err)
}
