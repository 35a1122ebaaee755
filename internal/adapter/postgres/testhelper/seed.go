package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/yomitan-backend/internal/adapter/postgres/term"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

// SeedDictionary stores a dictionary with a unique title and the given terms
// through the term repository. The dictionary and its terms are deleted when
// the test ends.
func SeedDictionary(t *testing.T, pool *pgxpool.Pool, language string, terms ...domain.Term) domain.Dictionary {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	d := domain.Dictionary{
		ID:        id,
		Title:     "Test Dictionary " + id.String()[:8],
		Revision:  "1",
		Language:  language,
		TermCount: len(terms),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	repo := term.New(pool)
	if err := repo.CreateDictionary(ctx, d); err != nil {
		t.Fatalf("testhelper: SeedDictionary: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM dictionaries WHERE id = $1`, id)
	})

	if _, err := repo.InsertTerms(ctx, id, terms); err != nil {
		t.Fatalf("testhelper: SeedDictionary terms: %v", err)
	}
	return d
}
