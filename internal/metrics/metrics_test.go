package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	r := NewRegistry()

	r.ObserveRequest(http.MethodGet, "/api/recipes", http.StatusOK, 15*time.Millisecond)
	r.ObserveRequest(http.MethodGet, "/api/recipes", http.StatusOK, 5*time.Millisecond)
	r.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.RequestsTotal.WithLabelValues("GET", "/api/recipes", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestDomainCounters(t *testing.T) {
	r := NewRegistry()

	r.LikeToggled(true)
	r.LikeToggled(true)
	r.LikeToggled(false)
	r.ReviewsCreated.Inc()
	r.RatingRecomputed(nil)
	r.RatingRecomputed(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.LikesToggled.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.LikesToggled.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ReviewsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RatingRecomputations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RatingRecomputations.WithLabelValues("error")))
}

func TestHandlerServesMetrics(t *testing.T) {
	r := NewRegistry()
	r.ReviewsCreated.Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "tasty_trail_reviews_created_total 1")
}
