// Package auth implements registration and login against the remote
// user table. There is no session token: login verifies a password
// hash against a fetched row and hands the row back; callers keep the
// user ID and re-supply it on every store call.
package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"todoai/internal/core"
	"todoai/internal/store"
)

// ErrNotFound means no user row matched the username.
var ErrNotFound = errors.New("user not found")

// ErrInvalidCredentials means the password did not match the stored hash.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session performs auth operations against a store.
type Session struct {
	store store.Store
}

// NewSession creates a Session backed by st.
func NewSession(st store.Store) *Session {
	return &Session{store: st}
}

// Register hashes the password and inserts a new user row. Username
// uniqueness is the store's job: a duplicate comes back as the store's
// *StoreError, never pre-checked here.
func (s *Session) Register(ctx context.Context, username, email, password string) (core.User, error) {
	if username == "" {
		return core.User{}, &store.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return core.User{}, &store.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, err
	}

	return s.store.CreateUser(ctx, core.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// Login fetches the row by username and verifies the password.
// Returns ErrNotFound when no row matches and ErrInvalidCredentials
// when the hash comparison fails, so a wrong password for an existing
// user is never reported as a missing user.
func (s *Session) Login(ctx context.Context, username, password string) (core.User, error) {
	user, err := s.store.FindUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return core.User{}, ErrNotFound
		}
		return core.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return core.User{}, ErrInvalidCredentials
	}
	return user, nil
}
