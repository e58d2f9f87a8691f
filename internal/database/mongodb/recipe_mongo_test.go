package mongodb

import (
	"context"
	"testing"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const recipesNS = "tastytrail.recipes"

func likesDoc(n int) bson.E {
	return bson.E{Key: "value", Value: bson.D{{Key: "likes", Value: n}}}
}

func TestRecipeStorage_ToggleLike(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("adds like", func(mt *mtest.T) {
		storage := NewRecipeStorage(mt.DB, logger.Discard())
		mt.AddMockResponses(mtest.CreateSuccessResponse(likesDoc(1)))

		res, err := storage.ToggleLike(context.Background(), "r1", "u1")
		require.NoError(mt, err)
		assert.Equal(mt, domain.LikeResult{Likes: 1, Liked: true}, res)
		assert.Equal(mt, []string{"findAndModify"}, commandNames(mt))
	})

	mt.Run("removes existing like", func(mt *mtest.T) {
		storage := NewRecipeStorage(mt.DB, logger.Discard())
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(likesDoc(0)),
		)

		res, err := storage.ToggleLike(context.Background(), "r1", "u1")
		require.NoError(mt, err)
		assert.Equal(mt, domain.LikeResult{Likes: 0, Liked: false}, res)
		assert.Equal(mt, []string{"findAndModify", "findAndModify"}, commandNames(mt))
	})

	mt.Run("missing recipe", func(mt *mtest.T) {
		storage := NewRecipeStorage(mt.DB, logger.Discard())
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, recipesNS, mtest.FirstBatch),
		)

		_, err := storage.ToggleLike(context.Background(), "ghost", "u1")
		require.ErrorIs(mt, err, domain.ErrRecipeNotFound)
		assert.Equal(mt, []string{"findAndModify", "findAndModify", "aggregate"}, commandNames(mt))
	})

	mt.Run("retries after concurrent toggle", func(mt *mtest.T) {
		storage := NewRecipeStorage(mt.DB, logger.Discard())
		mt.AddMockResponses(
			// обе условные попытки промахнулись, но рецепт существует
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, recipesNS, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			mtest.CreateSuccessResponse(likesDoc(5)),
		)

		res, err := storage.ToggleLike(context.Background(), "r1", "u1")
		require.NoError(mt, err)
		assert.Equal(mt, domain.LikeResult{Likes: 5, Liked: true}, res)
	})

	mt.Run("gives up after repeated races", func(mt *mtest.T) {
		storage := NewRecipeStorage(mt.DB, logger.Discard())
		for range toggleAttempts {
			mt.AddMockResponses(
				mtest.CreateSuccessResponse(),
				mtest.CreateSuccessResponse(),
				mtest.CreateCursorResponse(0, recipesNS, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			)
		}

		_, err := storage.ToggleLike(context.Background(), "r1", "u1")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrRecipeNotFound)
		assert.Contains(mt, err.Error(), "contention")
	})

	mt.Run("server error is not masked as not found", func(mt *mtest.T) {
		storage := NewRecipeStorage(mt.DB, logger.Discard())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad update",
		}))

		_, err := storage.ToggleLike(context.Background(), "r1", "u1")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrRecipeNotFound)
		assert.Contains(mt, err.Error(), "add like")
	})
}
