package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStorage реализует ports.UserStorage
type UserStorage struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

func NewUserStorage(db *mongo.Database, logger *slog.Logger) *UserStorage {
	return &UserStorage{collection: db.Collection(usersCollection), logger: logger}
}

func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.logger.Warn("user insert rejected: email already registered", "email", user.Email)
			return domain.ErrEmailTaken
		}
		s.logger.Error("failed to insert user", "email", user.Email, "error", err)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		s.logger.Error("failed to find user by email", "email", email, "error", err)
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}
