package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL — срок жизни токена, если конфигурация его не задала.
const DefaultTokenTTL = 30 * time.Minute

// TokenService выпускает и проверяет подписанные HS256 токены,
// в которых subject — email пользователя.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenService создаёт сервис токенов. Секрет должен приходить из конфигурации.
func NewTokenService(secret string, defaultTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret key cannot be empty")
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

// WithClock подменяет источник времени (для тестов).
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// DefaultTTL возвращает срок жизни по умолчанию.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue подписывает токен для subject. ttl <= 0 означает срок по умолчанию.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject cannot be empty")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия и возвращает subject.
// Для любого некорректного токена возвращает ("", false), без паники и ошибок.
func (s *TokenService) Verify(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
