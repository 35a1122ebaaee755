package dictionary

import (
	"context"
	"fmt"
	"log/slog"
)

// Reset removes every dictionary and term. It returns the number of
// dictionaries removed.
func (s *Service) Reset(ctx context.Context) (int64, error) {
	var removed int64
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.repo.DeleteAll(ctx)
		removed = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("reset dictionaries: %w", err)
	}

	s.log.WarnContext(ctx, "dictionaries reset", slog.Int64("removed", removed))
	return removed, nil
}
