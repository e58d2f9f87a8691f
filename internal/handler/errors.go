package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/TastyTrail/internal/domain"
)

// Виды ошибок в теле ответа
const (
	kindConflict        = "conflict"
	kindInvalidArgument = "invalid_argument"
	kindNotFound        = "not_found"
	kindUnauthorized    = "unauthorized"
	kindInternal        = "internal"
)

// конкретные ошибки, текст которых отдаётся клиенту без обёрток слоёв
var knownErrors = []error{
	domain.ErrEmailTaken,
	domain.ErrInvalidCredentials,
	domain.ErrRecipeNotFound,
	domain.ErrRestaurantNotFound,
	domain.ErrUnsupportedMedia,
	domain.ErrRatingOutOfRange,
}

// classifyError сопоставляет ошибку коду HTTP, виду и тексту для клиента.
// Conflict проверяется раньше InvalidArgument: он его частный случай.
func classifyError(err error) (int, string, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, kindInvalidArgument, "request body too large"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, kindConflict, clientDetail(err)
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, kindInvalidArgument, clientDetail(err)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, kindNotFound, clientDetail(err)
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, kindUnauthorized, clientDetail(err)
	default:
		return http.StatusInternalServerError, kindInternal, "internal server error"
	}
}

func clientDetail(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

// writeError логирует ошибку и отправляет её клиенту
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	code, kind, detail := classifyError(err)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}
	respondWithError(w, code, kind, detail, logger)
}
