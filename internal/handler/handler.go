package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse — тело ответа с ошибкой
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, kind, detail string, logger *slog.Logger) {
	respondWithJSON(w, code, errorResponse{Error: kind, Detail: detail}, logger)
}

// Health — проверка живости сервиса
func Health(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"app":    "Tasty Trail API",
		}, logger)
	}
}
