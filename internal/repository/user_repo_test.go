package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestPgUniqueField(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		err       error
		wantField string
		wantOK    bool
	}{
		{
			name:      "username constraint",
			err:       &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_username_key"},
			wantField: "username",
			wantOK:    true,
		},
		{
			name:      "email constraint wrapped",
			err:       fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}),
			wantField: "email",
			wantOK:    true,
		},
		{
			name:      "unrecognised constraint",
			err:       &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_pkey"},
			wantField: "",
			wantOK:    true,
		},
		{
			name:   "other pg error",
			err:    &pgconn.PgError{Code: "23502", ConstraintName: "users_email_key"},
			wantOK: false,
		},
		{
			name:   "plain error",
			err:    errors.New("connection reset"),
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field, ok := pgUniqueField(tc.err)
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.wantField, field)
		})
	}
}
