package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher хранит пароли в виде bcrypt-хешей.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher создаёт хешер с заданной стоимостью.
// Стоимость вне допустимого диапазона bcrypt заменяется на bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash возвращает солёный bcrypt-хеш пароля.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(hashed), nil
}

// Verify сравнивает пароль с хешем средствами bcrypt.
// Любая ошибка, включая битый хеш, означает несовпадение.
func (h *PasswordHasher) Verify(password, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
