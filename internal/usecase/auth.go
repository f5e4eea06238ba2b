package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/cifrato/invoice-backend/internal/model"
)

// Auth errors. Login failures are indistinguishable between unknown email
// and wrong password.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

// RegisterUser creates a tenant account with a hashed credential.
type RegisterUser struct {
	users  UserRepository
	hasher PasswordHasher
}

func NewRegisterUser(users UserRepository, hasher PasswordHasher) *RegisterUser {
	return &RegisterUser{users: users, hasher: hasher}
}

func (uc *RegisterUser) Execute(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hashed, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := model.NewUser(email, hashed)
	if err := uc.users.Add(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AuthenticateUser verifies credentials and issues an access token.
type AuthenticateUser struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenService
}

func NewAuthenticateUser(users UserRepository, hasher PasswordHasher, tokens TokenService) *AuthenticateUser {
	return &AuthenticateUser{users: users, hasher: hasher, tokens: tokens}
}

func (uc *AuthenticateUser) Execute(ctx context.Context, email, password string) (string, error) {
	user, err := uc.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if user == nil || !uc.hasher.Verify(password, user.HashedPassword) {
		return "", ErrInvalidCredentials
	}
	return uc.tokens.CreateAccessToken(user.ID)
}
