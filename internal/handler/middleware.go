package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", routePattern(r),
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// Metrics — middleware, считающее запросы по шаблону маршрута chi
func Metrics(reg *metrics.Registry) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)
			reg.ObserveRequest(r.Method, routePattern(r), ww.statusCode, time.Since(start))
		})
	}
}

// MaxBytes ограничивает размер тела запроса
func MaxBytes(limit int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver сопоставляет токен пользователю (nil — анонимный запрос)
type SessionResolver interface {
	Resolve(ctx context.Context, token string) *domain.User
}

type userCtxKey struct{}

// Session кладёт в контекст пользователя из bearer-токена.
// Без заголовка Authorization токен берётся из поля формы token.
// Анонимный запрос не отклоняется: это решает эндпоинт.
func Session(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := resolver.Resolve(r.Context(), requestToken(r)); user != nil {
				r = r.WithContext(context.WithValue(r.Context(), userCtxKey{}, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext возвращает пользователя сессии или nil
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userCtxKey{}).(*domain.User)
	return user
}

func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return ""
	}
	// только тело формы, query-строка не читается
	return r.PostFormValue("token")
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
