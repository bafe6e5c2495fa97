package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"authenticate-me/internal/model"
)

const pgUniqueViolation = "23505"

// UserRepository is the Postgres-backed user store.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.User{}, model.ErrUserNotFound
	}

	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id::text, username, email, hashed_password, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, errors.Wrap(err, "find user by id")
	}
	return u, nil
}

func (r *UserRepository) FindByCredential(ctx context.Context, credential string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id::text, username, email, hashed_password, created_at, updated_at
		 FROM users WHERE username = $1 OR email = $1
		 ORDER BY created_at LIMIT 1`, credential).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, errors.Wrap(err, "find user by credential")
	}
	return u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check username exists")
	}
	return exists, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check email exists")
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.NewUser) (model.User, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if field, ok := pgUniqueField(err); ok {
			return model.User{}, &model.DuplicateKeyError{Field: field}
		}
		return model.User{}, errors.Wrap(err, "create user")
	}

	return model.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.CreatedAt,
	}, nil
}

// pgUniqueField maps a unique_violation to the column it guards, or to an
// empty field when the constraint is not one of ours.
func pgUniqueField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return "", false
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return "username", true
	case strings.Contains(pgErr.ConstraintName, "email"):
		return "email", true
	default:
		return "", true
	}
}
