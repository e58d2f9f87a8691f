package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/config"
	"github.com/GoArmGo/TastyTrail/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 30 * time.Second

// NewRouter собирает HTTP-маршруты приложения
func NewRouter(a *App) http.Handler {
	authHandler := handler.NewAuthHandler(a.deps.Auth, a.logger)
	recipeHandler := handler.NewRecipeHandler(a.deps.Recipes, a.deps.Metrics, a.logger)
	restaurantHandler := handler.NewRestaurantHandler(a.deps.Restaurants, a.deps.Metrics, a.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(handler.RequestLogger(a.logger))
	r.Use(handler.Metrics(a.deps.Metrics))
	r.Use(cors.Handler(corsOptions(a.Config)))
	if a.Config != nil && a.Config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.Config.RequestTimeout))
	}

	r.Method(http.MethodGet, "/metrics", a.deps.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if a.Config != nil {
			r.Use(handler.MaxBytes(a.Config.MaxUploadBytes))
		}
		r.Use(handler.Session(a.deps.Sessions))

		r.Get("/health", handler.Health(a.logger))

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/me", authHandler.Me)

		r.Post("/recipes", recipeHandler.CreateRecipe)
		r.Get("/recipes", recipeHandler.ListRecipes)
		r.Post("/recipes/{id}/like", recipeHandler.ToggleLike)

		r.Post("/restaurants", restaurantHandler.CreateRestaurant)
		r.Get("/restaurants", restaurantHandler.ListRestaurants)
		r.Get("/restaurants/nearby", restaurantHandler.Nearby)
		r.Get("/restaurants/{id}/reviews", restaurantHandler.ListReviews)

		r.Post("/reviews", restaurantHandler.CreateReview)
	})

	return r
}

// corsOptions: без конфигурации разрешён любой origin, credentials не отдаются
func corsOptions(cfg *config.Config) cors.Options {
	opts := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}
	if cfg != nil && len(cfg.CORSAllowedOrigins) > 0 {
		opts.AllowedOrigins = cfg.CORSAllowedOrigins
		opts.AllowCredentials = cfg.CORSAllowCredentials()
	}
	return opts
}

// runServer обслуживает HTTP до отмены ctx, затем аккуратно останавливает сервер
func runServer(ctx context.Context, a *App) error {
	serverAddr := fmt.Sprintf(":%s", a.Config.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           NewRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}
