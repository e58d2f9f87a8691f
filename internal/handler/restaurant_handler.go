package handler

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/metrics"
	"github.com/GoArmGo/TastyTrail/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// RestaurantHandler — рестораны и отзывы
type RestaurantHandler struct {
	restaurantUseCase usecase.RestaurantUseCase
	metrics           *metrics.Registry
	logger            *slog.Logger
}

func NewRestaurantHandler(uc usecase.RestaurantUseCase, m *metrics.Registry, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{restaurantUseCase: uc, metrics: m, logger: logger}
}

// CreateRestaurant — POST /api/restaurants, тело JSON или поля формы
func (h *RestaurantHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, r, domain.ErrUnauthorized, h.logger)
		return
	}

	var in usecase.CreateRestaurantInput
	var err error
	if isJSON(r) {
		err = decodeJSON(r, &in)
	} else {
		in, err = restaurantFromForm(r)
	}
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	restaurant, err := h.restaurantUseCase.CreateRestaurant(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, restaurant, h.logger)
}

func restaurantFromForm(r *http.Request) (usecase.CreateRestaurantInput, error) {
	if err := parseMultipart(r); err != nil {
		return usecase.CreateRestaurantInput{}, err
	}
	lat, err := parseFloatParam(r.FormValue("latitude"), "latitude")
	if err != nil {
		return usecase.CreateRestaurantInput{}, err
	}
	lng, err := parseFloatParam(r.FormValue("longitude"), "longitude")
	if err != nil {
		return usecase.CreateRestaurantInput{}, err
	}
	return usecase.CreateRestaurantInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		CuisineType: r.FormValue("cuisine_type"),
		Address:     r.FormValue("address"),
		Latitude:    lat,
		Longitude:   lng,
	}, nil
}

// ListRestaurants — GET /api/restaurants
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurantUseCase.ListRestaurants(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, restaurants, h.logger)
}

// Nearby — GET /api/restaurants/nearby?lat=&lng=&radius=
func (h *RestaurantHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := parseFloatParam(q.Get("lat"), "lat")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	lng, err := parseFloatParam(q.Get("lng"), "lng")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	radius := usecase.DefaultNearbyRadius
	if raw := q.Get("radius"); raw != "" {
		if radius, err = parseFloatParam(raw, "radius"); err != nil {
			writeError(w, r, err, h.logger)
			return
		}
	}

	restaurants, err := h.restaurantUseCase.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, restaurants, h.logger)
}

// CreateReview — POST /api/reviews (multipart: restaurant_id, rating, comment, photos)
func (h *RestaurantHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, r, domain.ErrUnauthorized, h.logger)
		return
	}
	if err := parseMultipart(r); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	rating, err := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))
	if err != nil {
		writeError(w, r, fmt.Errorf("rating must be an integer: %w", domain.ErrInvalidArgument), h.logger)
		return
	}

	in := usecase.CreateReviewInput{
		RestaurantID: r.FormValue("restaurant_id"),
		Rating:       rating,
		Comment:      r.FormValue("comment"),
	}
	for _, fh := range formFiles(r, "photos") {
		upload, err := readUpload(fh)
		if err != nil {
			writeError(w, r, err, h.logger)
			return
		}
		in.Photos = append(in.Photos, upload)
	}

	review, err := h.restaurantUseCase.CreateReview(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	h.metrics.ReviewsCreated.Inc()
	respondWithJSON(w, http.StatusOK, review, h.logger)
}

// ListReviews — GET /api/restaurants/{id}/reviews
func (h *RestaurantHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.restaurantUseCase.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews, h.logger)
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
