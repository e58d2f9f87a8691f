// Package metrics — метрики Prometheus сервиса: HTTP-запросы и доменные счётчики.
// Используется собственный реестр, чтобы тесты не делили глобальное состояние.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tasty_trail"

// Registry хранит все метрики приложения
type Registry struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	LikesToggled         *prometheus.CounterVec
	ReviewsCreated       prometheus.Counter
	RatingRecomputations *prometheus.CounterVec
}

// NewRegistry создаёт реестр с метриками рантайма Go и процесса
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		LikesToggled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipe_likes_toggled_total",
			Help:      "Like toggles by resulting state.",
		}, []string{"liked"}),
		ReviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Reviews accepted.",
		}),
		RatingRecomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rating_recomputations_total",
			Help:      "Rating reconciliations run by the worker, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.RequestsTotal,
		r.RequestDuration,
		r.LikesToggled,
		r.ReviewsCreated,
		r.RatingRecomputations,
	)
	return r
}

// ObserveRequest записывает завершённый HTTP-запрос
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// LikeToggled учитывает переключение лайка
func (r *Registry) LikeToggled(liked bool) {
	r.LikesToggled.WithLabelValues(strconv.FormatBool(liked)).Inc()
}

// RatingRecomputed учитывает сверку агрегата в воркере
func (r *Registry) RatingRecomputed(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.RatingRecomputations.WithLabelValues(result).Inc()
}

// Handler отдаёт метрики в формате Prometheus
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
