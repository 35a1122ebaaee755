package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

// SQLSTATE codes mapped onto domain errors. The 22xxx and 54000 entries
// come from dictionary contents Postgres cannot store: NUL bytes, invalid
// UTF-8 and terms too large for the lookup indexes.
var pgCodes = map[string]error{
	"23505": domain.ErrAlreadyExists, // unique_violation
	"23503": domain.ErrNotFound,      // foreign_key_violation
	"23514": domain.ErrValidation,    // check_violation
	"22021": domain.ErrValidation,    // character_not_in_repertoire
	"22P05": domain.ErrValidation,    // untranslatable_character
	"54000": domain.ErrValidation,    // program_limit_exceeded
}

// MapError converts pgx errors to domain errors, prefixed with entity and
// the optional key (a title, an ID). Context errors are wrapped but keep
// their identity.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	prefix := entity
	if key != "" {
		prefix += " " + key
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", prefix, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		mapped, ok := pgCodes[pgErr.Code]
		switch {
		case !ok:
		case errors.Is(mapped, domain.ErrValidation):
			return fmt.Errorf("%s: %w: %s", prefix, mapped, pgErr.Message)
		default:
			return fmt.Errorf("%s: %w", prefix, mapped)
		}
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
