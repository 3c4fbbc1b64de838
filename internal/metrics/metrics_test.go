package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/api/public/cases/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/public/cases/{id}", "404")
	before := testutil.ToFloat64(counter)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/public/cases/1", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/public/cases/2", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(APIActiveRequests))
}

func TestRecordNotification(t *testing.T) {
	failure := NotificationsTotal.WithLabelValues("test", "failure")
	success := NotificationsTotal.WithLabelValues("test", "success")
	f0, s0 := testutil.ToFloat64(failure), testutil.ToFloat64(success)

	RecordNotification("test", errors.New("smtp down"))
	RecordNotification("test", nil)

	assert.Equal(t, f0+1, testutil.ToFloat64(failure))
	assert.Equal(t, s0+1, testutil.ToFloat64(success))
}
