package domain

import (
	"errors"
	"fmt"
)

// Классы ошибок, которые видит клиент. Слои ниже оборачивают их через %w.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict — частный случай ErrInvalidArgument (повторная регистрация)
	ErrConflict = fmt.Errorf("%w: conflict", ErrInvalidArgument)
	ErrInternal = errors.New("internal error")
)

// Конкретные ошибки предметной области
var (
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("incorrect email or password: %w", ErrUnauthorized)
	ErrRecipeNotFound     = fmt.Errorf("recipe %w", ErrNotFound)
	ErrRestaurantNotFound = fmt.Errorf("restaurant %w", ErrNotFound)
	ErrUnsupportedMedia   = fmt.Errorf("unsupported media type: %w", ErrInvalidArgument)
	ErrRatingOutOfRange   = fmt.Errorf("rating must be between %d and %d: %w", MinRating, MaxRating, ErrInvalidArgument)
)
