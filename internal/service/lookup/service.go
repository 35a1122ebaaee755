// Package lookup answers "what dictionary entries start at this point of the
// text" by deinflecting every prefix and querying the term store with the
// resulting keys.
package lookup

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type termRepo interface {
	FindByKeys(ctx context.Context, keys []string, limit int) ([]domain.Term, error)
	DictionaryTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type deinflector interface {
	Candidates(lang, text string) ([]deinflect.Candidate, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements dictionary lookup.
type Service struct {
	log   *slog.Logger
	terms termRepo
	langs deinflector
	cfg   config.LookupConfig
}

// NewService creates a new lookup service.
func NewService(logger *slog.Logger, terms termRepo, langs deinflector, cfg config.LookupConfig) *Service {
	return &Service{
		log:   logger.With("service", "lookup"),
		terms: terms,
		langs: langs,
		cfg:   cfg,
	}
}
