package dictionary

import (
	"context"
	"fmt"

	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

// List returns every imported dictionary with its term count.
func (s *Service) List(ctx context.Context) ([]domain.Dictionary, error) {
	dicts, err := s.repo.ListDictionaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dictionaries: %w", err)
	}
	if dicts == nil {
		dicts = []domain.Dictionary{}
	}
	return dicts, nil
}
