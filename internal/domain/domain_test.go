package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, errors.Is(ErrConflict, ErrInvalidArgument), "conflict is an invalid-argument subtype")
	assert.True(t, errors.Is(ErrEmailTaken, ErrConflict))
	assert.True(t, errors.Is(ErrInvalidCredentials, ErrUnauthorized))
	assert.True(t, errors.Is(ErrRecipeNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrRestaurantNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrRatingOutOfRange, ErrInvalidArgument))
	assert.True(t, errors.Is(ErrUnsupportedMedia, ErrInvalidArgument))
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidArgument))
}

func TestNewRatingSummary(t *testing.T) {
	empty := NewRatingSummary(0, 0)
	assert.Equal(t, 0.0, empty.AverageRating)
	assert.Equal(t, 0, empty.TotalReviews)

	s := NewRatingSummary(3+5+4, 3)
	assert.Equal(t, 4.0, s.AverageRating)
	assert.Equal(t, 3, s.TotalReviews)

	s = NewRatingSummary(3+4, 2)
	assert.Equal(t, 3.5, s.AverageRating)
}

func TestValidRating(t *testing.T) {
	for _, r := range []int{1, 2, 3, 4, 5} {
		assert.True(t, ValidRating(r), "rating %d", r)
	}
	for _, r := range []int{-1, 0, 6, 10} {
		assert.False(t, ValidRating(r), "rating %d", r)
	}
}

func TestRestaurantWithin(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"origin", 0, 0, true},
		{"boundary on axis", 1, 0, true},
		{"boundary negative axis", 0, -1, true},
		{"just outside", 1.0001, 0, false},
		{"negative coords", -0.5, -0.5, true},
		{"far away", 2, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Restaurant{Latitude: tc.lat, Longitude: tc.lng}
			assert.Equal(t, tc.want, r.Within(0, 0, 1))
		})
	}
}

func TestRecipeNormalize(t *testing.T) {
	var r Recipe
	r.Normalize()
	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Instructions)
	assert.NotNil(t, r.Tags)
	assert.NotNil(t, r.LikedBy)
	assert.NotNil(t, r.Comments)
}
