package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"authenticate-me/internal/model"
)

// SQLiteUserRepository is the development user store.
type SQLiteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, hashed_password, created_at, updated_at
		 FROM users WHERE id = ?`, id)

	u, err := scanSQLiteUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, errors.Wrap(err, "find user by id")
	}
	return u, nil
}

func (r *SQLiteUserRepository) FindByCredential(ctx context.Context, credential string) (model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, hashed_password, created_at, updated_at
		 FROM users WHERE username = ?1 OR email = ?1
		 ORDER BY created_at LIMIT 1`, credential)

	u, err := scanSQLiteUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, errors.Wrap(err, "find user by credential")
	}
	return u, nil
}

func (r *SQLiteUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check username exists")
	}
	return exists, nil
}

func (r *SQLiteUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check email exists")
	}
	return exists, nil
}

func (r *SQLiteUserRepository) Create(ctx context.Context, u model.NewUser) (model.User, error) {
	createdAt := u.CreatedAt.UTC()
	stamp := createdAt.Format(time.RFC3339Nano)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, stamp, stamp)
	if err != nil {
		if field, ok := sqliteUniqueField(err); ok {
			return model.User{}, &model.DuplicateKeyError{Field: field}
		}
		return model.User{}, errors.Wrap(err, "create user")
	}

	return model.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

func scanSQLiteUser(row *sql.Row) (model.User, error) {
	var (
		u                    model.User
		createdAt, updatedAt string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		return model.User{}, err
	}

	var err error
	if u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return model.User{}, errors.Wrap(err, "parse created_at")
	}
	if u.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return model.User{}, errors.Wrap(err, "parse updated_at")
	}
	return u, nil
}

// sqliteUniqueField reads the column out of "UNIQUE constraint failed: users.<col>".
// An unrecognised column yields an empty field.
func sqliteUniqueField(err error) (string, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return "", false
	}

	msg := sqliteErr.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return "", false
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return "username", true
	case strings.Contains(msg, "users.email"):
		return "email", true
	default:
		return "", true
	}
}
