package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const bcryptCost = 12

// AuthService registers and validates the single user's credentials. Only a
// bcrypt-derived credential is stored, never the plaintext. There is no
// lockout or rate limiting.
type AuthService struct {
	storage *storage.SQLiteRepository
}

func NewAuthService(storage *storage.SQLiteRepository) *AuthService {
	return &AuthService{storage: storage}
}

// Register stores a new user with a bcrypt hash of the password. Returns
// storage.ErrDuplicateKey if the username is taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, core.ErrEmptyUsername
	}
	if password == "" {
		return 0, core.ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.storage.CreateUser(ctx, username, string(hash))
	if err != nil {
		return 0, fmt.Errorf("register user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "id", id, "username", username)
	return id, nil
}

// Validate reports whether the username/password pair matches the stored
// credential. An unknown username is a plain false, not an error.
func (s *AuthService) Validate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("validate user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil, nil
}
