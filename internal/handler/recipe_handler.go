package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/metrics"
	"github.com/GoArmGo/TastyTrail/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// RecipeHandler — обработчик HTTP-запросов для рецептов.
type RecipeHandler struct {
	recipeUseCase usecase.RecipeUseCase
	metrics       *metrics.Registry
	logger        *slog.Logger
}

func NewRecipeHandler(uc usecase.RecipeUseCase, m *metrics.Registry, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipeUseCase: uc, metrics: m, logger: logger}
}

// CreateRecipe — POST /api/recipes (multipart).
// ingredients, instructions и tags приходят JSON-массивами в полях формы.
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, r, domain.ErrUnauthorized, h.logger)
		return
	}
	if err := parseMultipart(r); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	in := usecase.CreateRecipeInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	var err error
	if in.Ingredients, err = formStringList(r, "ingredients"); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if in.Instructions, err = formStringList(r, "instructions"); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if in.Tags, err = formStringList(r, "tags"); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if files := formFiles(r, "media_file"); len(files) > 0 {
		upload, err := readUpload(files[0])
		if err != nil {
			writeError(w, r, err, h.logger)
			return
		}
		in.Media = &upload
	}

	recipe, err := h.recipeUseCase.CreateRecipe(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipe, h.logger)
}

// ListRecipes — GET /api/recipes?skip=&limit=
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, err := parseIntParam(q.Get("skip"), "skip", 0)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	limit, err := parseIntParam(q.Get("limit"), "limit", usecase.DefaultRecipeLimit)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	recipes, err := h.recipeUseCase.ListRecipes(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, recipes, h.logger)
}

// ToggleLike — POST /api/recipes/{id}/like
func (h *RecipeHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, r, domain.ErrUnauthorized, h.logger)
		return
	}

	res, err := h.recipeUseCase.ToggleLike(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.metrics.LikeToggled(res.Liked)
	respondWithJSON(w, http.StatusOK, res, h.logger)
}
