package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/yomitan-backend/internal/app/importer"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

const defaultChunkSize = 1000

// Import parses a Yomitan archive and stores it as a new dictionary. The
// dictionary row and all its terms are written in one transaction, so a
// failed import leaves nothing behind. A title that is already imported
// yields domain.ErrAlreadyExists.
func (s *Service) Import(ctx context.Context, r io.ReaderAt, size int64) (*ImportResult, error) {
	start := time.Now()

	parsed, err := importer.Parse(r, size, s.cfg.MaxUnpackedBytes)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidArchive) {
			return nil, domain.NewValidationError("file", err.Error())
		}
		return nil, fmt.Errorf("parse archive: %w", err)
	}
	if len(parsed.Terms) == 0 {
		return nil, domain.NewValidationError("file", "archive contains no terms")
	}

	dict := domain.Dictionary{
		ID:        uuid.New(),
		Title:     parsed.Index.Title,
		Revision:  parsed.Index.Revision,
		Language:  parsed.Index.SourceLanguage,
		TermCount: len(parsed.Terms),
		CreatedAt: time.Now().UTC(),
	}

	chunkSize := s.cfg.ImportChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateDictionary(ctx, dict); err != nil {
			return err
		}

		for chunkStart := 0; chunkStart < len(parsed.Terms); chunkStart += chunkSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunkEnd := min(chunkStart+chunkSize, len(parsed.Terms))
			if _, err := s.repo.InsertTerms(ctx, dict.ID, parsed.Terms[chunkStart:chunkEnd]); err != nil {
				return fmt.Errorf("insert terms %d-%d: %w", chunkStart, chunkEnd, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import %q: %w", dict.Title, err)
	}

	s.log.InfoContext(ctx, "dictionary imported",
		slog.String("dictionary_id", dict.ID.String()),
		slog.String("title", dict.Title),
		slog.Int("terms", dict.TermCount),
		slog.Int("skipped", parsed.Stats.Skipped),
		slog.Duration("duration", time.Since(start)),
	)

	return &ImportResult{
		Dictionary: dict,
		Banks:      parsed.Stats.Banks,
		Skipped:    parsed.Stats.Skipped,
	}, nil
}
