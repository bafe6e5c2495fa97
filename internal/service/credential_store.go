package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"authenticate-me/internal/model"
	"authenticate-me/internal/validation"
	"authenticate-me/pkg/apierror"
)

const genericConflictMessage = "An account with the provided username or email already exists."

// UserRepository is implemented by the Postgres and SQLite user stores.
type UserRepository interface {
	Create(ctx context.Context, u model.NewUser) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByCredential(ctx context.Context, credential string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CredentialStore owns user records: it hashes on create and hands out
// only projections, so the digest never leaves except as an AuthRecord.
type CredentialStore struct {
	users            UserRepository
	hasher           PasswordHasher
	genericConflicts bool
	now              func() time.Time
}

func NewCredentialStore(users UserRepository, hasher PasswordHasher, genericConflicts bool) *CredentialStore {
	return &CredentialStore{
		users:            users,
		hasher:           hasher,
		genericConflicts: genericConflicts,
		now:              time.Now,
	}
}

// Create fails with a validation-shaped *apierror.APIError carrying one
// message per violated field (shape or uniqueness).
func (s *CredentialStore) Create(ctx context.Context, username string, email string, password string) (model.PublicUser, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return model.PublicUser{}, apierror.Validation([]string{"Password must be 72 bytes or fewer."})
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	messages := make([]string, 0, 2)
	invalid := map[string]bool{}
	for _, fe := range validation.UserRecord(username, email, hash) {
		invalid[fe.Field] = true
		messages = append(messages, fe.Message)
	}

	conflicts, err := s.conflicts(ctx, username, email, invalid)
	if err != nil {
		return model.PublicUser{}, err
	}
	messages = append(messages, s.conflictMessages(conflicts)...)

	if len(messages) > 0 {
		return model.PublicUser{}, apierror.Validation(messages)
	}

	user, err := s.users.Create(ctx, model.NewUser{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		var dup *model.DuplicateKeyError
		if errors.As(err, &dup) {
			return model.PublicUser{}, apierror.Validation(s.conflictMessages([]string{dup.Field}))
		}
		return model.PublicUser{}, fmt.Errorf("create user: %w", err)
	}

	return user.Public(), nil
}

// FindByCredential matches username or email with literal equality.
func (s *CredentialStore) FindByCredential(ctx context.Context, credential string) (model.AuthRecord, error) {
	user, err := s.users.FindByCredential(ctx, credential)
	if err != nil {
		return model.AuthRecord{}, err
	}
	return user.Auth(), nil
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

// EnsureUser creates the user unless the username or email is already taken.
func (s *CredentialStore) EnsureUser(ctx context.Context, username string, email string, password string) (bool, error) {
	taken, err := s.conflicts(ctx, username, email, nil)
	if err != nil {
		return false, err
	}
	if len(taken) > 0 {
		return false, nil
	}

	if _, err := s.Create(ctx, username, email, password); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CredentialStore) conflicts(ctx context.Context, username string, email string, skip map[string]bool) ([]string, error) {
	var taken []string

	if !skip["username"] {
		exists, err := s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if exists {
			taken = append(taken, "username")
		}
	}

	if !skip["email"] {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if exists {
			taken = append(taken, "email")
		}
	}

	return taken, nil
}

func (s *CredentialStore) conflictMessages(fields []string) []string {
	if len(fields) == 0 {
		return nil
	}
	if s.genericConflicts || slices.Contains(fields, "") {
		return []string{genericConflictMessage}
	}

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, (&model.DuplicateKeyError{Field: field}).Error())
	}
	return out
}
