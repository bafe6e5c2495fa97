package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authenticate-me/internal/model"
	"authenticate-me/pkg/apierror"
)

// AuthService orchestrates signup, login and session restoration.
type AuthService struct {
	store       *CredentialStore
	hasher      PasswordHasher
	tokens      *TokenIssuer
	dummyDigest string
}

func NewAuthService(store *CredentialStore, hasher PasswordHasher, tokens *TokenIssuer) (*AuthService, error) {
	// Unknown credentials still pay for one hash comparison.
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}

	return &AuthService{store: store, hasher: hasher, tokens: tokens, dummyDigest: dummy}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Signup creates the user and returns it with a fresh session token.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.PublicUser, string, error) {
	user, err := s.store.Create(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return model.PublicUser{}, "", err
	}

	token, err := s.tokens.Issue(user.Safe())
	if err != nil {
		return model.PublicUser{}, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login fails with the same LoginFailed error whether the credential or the
// password was wrong.
func (s *AuthService) Login(ctx context.Context, credential string, password string) (model.PublicUser, string, error) {
	record, err := s.store.FindByCredential(ctx, credential)
	if errors.Is(err, model.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyDigest)
		return model.PublicUser{}, "", apierror.LoginFailed()
	}
	if err != nil {
		return model.PublicUser{}, "", err
	}

	if !s.hasher.Verify(password, record.PasswordHash) {
		return model.PublicUser{}, "", apierror.LoginFailed()
	}

	user, err := s.store.FindByID(ctx, record.ID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.PublicUser{}, "", apierror.LoginFailed()
	}
	if err != nil {
		return model.PublicUser{}, "", err
	}

	token, err := s.tokens.Issue(user.Safe())
	if err != nil {
		return model.PublicUser{}, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// RestoreUser resolves a session token to the current public user view.
// It returns model.ErrInvalidToken or model.ErrUserNotFound when the
// session should be treated as anonymous.
func (s *AuthService) RestoreUser(ctx context.Context, token string) (model.PublicUser, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return model.PublicUser{}, err
	}

	return s.store.FindByID(ctx, claims.ID)
}

// EnsureDemoUser seeds the demo account if neither its username nor email exists.
func (s *AuthService) EnsureDemoUser(ctx context.Context) (bool, error) {
	return s.store.EnsureUser(ctx, DemoUsername, DemoEmail, DemoPassword)
}

const (
	DemoUsername = "Demo-lition"
	DemoEmail    = "demo@user.io"
	DemoPassword = "password"
)
