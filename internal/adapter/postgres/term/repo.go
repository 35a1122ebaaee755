// Package term implements dictionary and term storage using PostgreSQL.
// Queries are built with squirrel and scanned with pgxscan; bulk term
// inserts go through COPY.
package term

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/yomitan-backend/internal/adapter/postgres"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var termColumns = []string{
	"id", "dictionary_id", "expression", "reading", "definition_tags",
	"rules", "score", "glossary", "sequence", "term_tags",
}

// copyColumns is termColumns without the generated id.
var copyColumns = termColumns[1:]

var dictionaryColumns = []string{
	"id", "title", "revision", "language", "term_count", "created_at",
}

type termRow struct {
	ID             int64           `db:"id"`
	DictionaryID   uuid.UUID       `db:"dictionary_id"`
	Expression     string          `db:"expression"`
	Reading        string          `db:"reading"`
	DefinitionTags []string        `db:"definition_tags"`
	Rules          string          `db:"rules"`
	Score          int             `db:"score"`
	Glossary       json.RawMessage `db:"glossary"`
	Sequence       int             `db:"sequence"`
	TermTags       []string        `db:"term_tags"`
}

type dictionaryRow struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Revision  string    `db:"revision"`
	Language  string    `db:"language"`
	TermCount int       `db:"term_count"`
	CreatedAt time.Time `db:"created_at"`
}

// Repo provides dictionary and term persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new term repository. q is normally the *pgxpool.Pool;
// inside TxManager.RunInTx the context transaction takes precedence.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByKeys returns up to limit terms whose expression or reading equals one
// of keys. Rows matching an earlier key come first, then higher scores, so
// the limit cuts the keys at the end of the list.
func (r *Repo) FindByKeys(ctx context.Context, keys []string, limit int) ([]domain.Term, error) {
	if len(keys) == 0 || limit <= 0 {
		return nil, nil
	}

	query, args, err := psql.
		Select(termColumns...).
		From("terms").
		Where(squirrel.Or{
			squirrel.Expr("expression = ANY(?)", keys),
			squirrel.Expr("reading = ANY(?)", keys),
		}).
		OrderByClause("LEAST(array_position(?::text[], expression), array_position(?::text[], reading))", keys, keys).
		OrderBy("score DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find terms query: %w", err)
	}

	var rows []termRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "terms", "")
	}

	terms := make([]domain.Term, len(rows))
	for i, row := range rows {
		terms[i] = toDomainTerm(row)
	}
	return terms, nil
}

// ListDictionaries returns every imported dictionary, oldest first.
func (r *Repo) ListDictionaries(ctx context.Context) ([]domain.Dictionary, error) {
	query, args, err := psql.
		Select(dictionaryColumns...).
		From("dictionaries").
		OrderBy("created_at", "title").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list dictionaries query: %w", err)
	}

	var rows []dictionaryRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "dictionaries", "")
	}

	dicts := make([]domain.Dictionary, len(rows))
	for i, row := range rows {
		dicts[i] = domain.Dictionary(row)
	}
	return dicts, nil
}

// DictionaryTitles maps each known id in ids to its dictionary title.
func (r *Repo) DictionaryTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	query, args, err := psql.
		Select("id", "title").
		From("dictionaries").
		Where(squirrel.Expr("id = ANY(?)", ids)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build dictionary titles query: %w", err)
	}

	var rows []struct {
		ID    uuid.UUID `db:"id"`
		Title string    `db:"title"`
	}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.q), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "dictionaries", "")
	}

	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreateDictionary inserts d. A title that already exists yields
// domain.ErrAlreadyExists.
func (r *Repo) CreateDictionary(ctx context.Context, d domain.Dictionary) error {
	query, args, err := psql.
		Insert("dictionaries").
		Columns(dictionaryColumns...).
		Values(d.ID, d.Title, d.Revision, d.Language, d.TermCount, d.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert dictionary query: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "dictionary", d.Title)
	}
	return nil
}

// InsertTerms copies terms into dictID and returns the number of rows written.
func (r *Repo) InsertTerms(ctx context.Context, dictID uuid.UUID, terms []domain.Term) (int64, error) {
	if len(terms) == 0 {
		return 0, nil
	}

	n, err := postgres.QuerierFromCtx(ctx, r.q).CopyFrom(ctx,
		pgx.Identifier{"terms"},
		copyColumns,
		pgx.CopyFromSlice(len(terms), func(i int) ([]any, error) {
			t := terms[i]
			return []any{
				dictID, t.Expression, t.Reading, nonNil(t.DefinitionTags),
				t.Rules, t.Score, glossary(t.Glossary), t.Sequence, nonNil(t.TermTags),
			}, nil
		}),
	)
	if err != nil {
		return n, postgres.MapError(err, "terms", dictID.String())
	}
	return n, nil
}

// DeleteAll removes every dictionary; terms go with them through the
// foreign key cascade. It returns the number of dictionaries removed.
func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	query, args, err := psql.Delete("dictionaries").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete dictionaries query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.q).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "dictionaries", "")
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func toDomainTerm(row termRow) domain.Term {
	return domain.Term(row)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func glossary(g json.RawMessage) json.RawMessage {
	if len(g) == 0 {
		return json.RawMessage("[]")
	}
	return g
}
