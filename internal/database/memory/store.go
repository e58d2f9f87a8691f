// Package memory — хранилище в памяти процесса для локального запуска (STORAGE_DRIVER=memory)
// и тестов. Все операции сериализуются одним мьютексом, поэтому переключение лайка
// и обновление агрегата рейтинга атомарны так же, как в Postgres и Mongo.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/GoArmGo/TastyTrail/internal/domain"
)

// Store реализует ports.UserStorage, RecipeStorage, RestaurantStorage и ReviewStorage.
type Store struct {
	mu sync.RWMutex

	usersByEmail map[string]domain.User
	recipes      map[string]*domain.Recipe
	restaurants  map[string]*domain.Restaurant
	// порядок вставки ресторанов = "порядок хранения"
	restaurantOrder []string
	reviews         []domain.Review
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{
		usersByEmail: make(map[string]domain.User),
		recipes:      make(map[string]*domain.Recipe),
		restaurants:  make(map[string]*domain.Restaurant),
	}
}

// Close ничего не делает; нужен для единообразия с другими драйверами.
func (s *Store) Close() error { return nil }

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	s.usersByEmail[user.Email] = *user
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// --- recipes ---

func (s *Store) SaveRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cloneRecipe(*recipe)
	s.recipes[recipe.ID] = &cp
	return nil
}

func (s *Store) GetRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, nil
	}
	cp := cloneRecipe(*r)
	return &cp, nil
}

func (s *Store) ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	all := make([]domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		all = append(all, cloneRecipe(*r))
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if skip >= len(all) {
		return []domain.Recipe{}, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (s *Store) ToggleLike(ctx context.Context, recipeID, userID string) (domain.LikeResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.LikeResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[recipeID]
	if !ok {
		return domain.LikeResult{}, domain.ErrRecipeNotFound
	}

	if i := slices.Index(r.LikedBy, userID); i >= 0 {
		r.LikedBy = slices.Delete(r.LikedBy, i, i+1)
		r.Likes = max(0, r.Likes-1)
		return domain.LikeResult{Likes: r.Likes, Liked: false}, nil
	}
	r.LikedBy = append(r.LikedBy, userID)
	r.Likes++
	return domain.LikeResult{Likes: r.Likes, Liked: true}, nil
}

// --- restaurants ---

func (s *Store) SaveRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *restaurant
	if _, exists := s.restaurants[cp.ID]; !exists {
		s.restaurantOrder = append(s.restaurantOrder, cp.ID)
	}
	s.restaurants[cp.ID] = &cp
	return nil
}

func (s *Store) GetRestaurantByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListRestaurants(ctx context.Context, limit int) ([]domain.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Restaurant, 0, min(limit, len(s.restaurantOrder)))
	for _, id := range s.restaurantOrder {
		if len(out) >= limit {
			break
		}
		out = append(out, *s.restaurants[id])
	}
	return out, nil
}

// --- reviews ---

func (s *Store) AddReview(ctx context.Context, review *domain.Review) (domain.RatingSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.RatingSummary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.restaurants[review.RestaurantID]
	if !ok {
		return domain.RatingSummary{}, domain.ErrRestaurantNotFound
	}

	cp := *review
	cp.Photos = slices.Clone(review.Photos)
	s.reviews = append(s.reviews, cp)

	summary := domain.NewRatingSummary(r.RatingSum+review.Rating, r.TotalReviews+1)
	applySummary(r, summary)
	return summary, nil
}

func (s *Store) ListReviewsByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]domain.Review, 0)
	for _, rv := range s.reviews {
		if rv.RestaurantID == restaurantID {
			rv.Photos = slices.Clone(rv.Photos)
			out = append(out, rv)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) RecomputeRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.RatingSummary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.restaurants[restaurantID]
	if !ok {
		return domain.RatingSummary{}, domain.ErrRestaurantNotFound
	}
	sum, count := 0, 0
	for _, rv := range s.reviews {
		if rv.RestaurantID == restaurantID {
			sum += rv.Rating
			count++
		}
	}
	summary := domain.NewRatingSummary(sum, count)
	applySummary(r, summary)
	return summary, nil
}

func applySummary(r *domain.Restaurant, s domain.RatingSummary) {
	r.RatingSum = s.RatingSum
	r.TotalReviews = s.TotalReviews
	r.AverageRating = s.AverageRating
}

func cloneRecipe(r domain.Recipe) domain.Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Instructions = slices.Clone(r.Instructions)
	r.Tags = slices.Clone(r.Tags)
	r.LikedBy = slices.Clone(r.LikedBy)
	r.Comments = slices.Clone(r.Comments)
	return r
}
