// Package dictionary manages the imported dictionary catalog: listing,
// importing Yomitan archives and wiping everything.
package dictionary

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type dictionaryRepo interface {
	ListDictionaries(ctx context.Context) ([]domain.Dictionary, error)
	CreateDictionary(ctx context.Context, d domain.Dictionary) error
	InsertTerms(ctx context.Context, dictID uuid.UUID, terms []domain.Term) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the dictionary catalog business logic.
type Service struct {
	log  *slog.Logger
	repo dictionaryRepo
	tx   txManager
	cfg  config.DictionaryConfig
}

// NewService creates a new Dictionary service.
func NewService(logger *slog.Logger, repo dictionaryRepo, tx txManager, cfg config.DictionaryConfig) *Service {
	return &Service{
		log:  logger.With("service", "dictionary"),
		repo: repo,
		tx:   tx,
		cfg:  cfg,
	}
}
