package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/TastyTrail/internal/core/ports"
	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/google/uuid"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	users    ports.UserStorage
	hasher   PasswordHasher
	tokens   TokenIssuer
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthUseCase создает новый экземпляр AuthUseCase.
// tokenTTL — единый срок жизни токена для регистрации и входа.
func NewAuthUseCase(
	users ports.UserStorage,
	hasher PasswordHasher,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*domain.AccessToken, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", domain.ErrInvalidArgument)
	}

	existing, err := uc.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("usecase: lookup user by email: %w", err)
	}
	if existing != nil {
		uc.logger.Warn("registration rejected: email already registered", "email", in.Email)
		return nil, domain.ErrEmailTaken
	}

	hashed, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("usecase: hash password: %w", err)
	}

	user := &domain.User{
		ID:             uuid.NewString(),
		Username:       in.Username,
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: hashed,
		CreatedAt:      time.Now().UTC(),
	}
	// уникальность email дополнительно гарантирует хранилище (гонка двух регистраций)
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: create user: %w", err)
	}

	uc.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return uc.issue(user.Email)
}

func (uc *authUseCase) Login(ctx context.Context, in LoginInput) (*domain.AccessToken, error) {
	in.Email = strings.TrimSpace(in.Email)

	user, err := uc.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("usecase: lookup user by email: %w", err)
	}
	if user == nil || !uc.hasher.Verify(in.Password, user.HashedPassword) {
		uc.logger.Warn("login attempt failed", "email", in.Email)
		return nil, domain.ErrInvalidCredentials
	}

	uc.logger.Info("user logged in", "user_id", user.ID)
	return uc.issue(user.Email)
}

func (uc *authUseCase) issue(email string) (*domain.AccessToken, error) {
	token, err := uc.tokens.Issue(email, uc.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("usecase: issue token: %w", err)
	}
	return &domain.AccessToken{AccessToken: token, TokenType: domain.TokenTypeBearer}, nil
}
