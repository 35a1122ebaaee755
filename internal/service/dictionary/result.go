package dictionary

import "github.com/heartmarshall/yomitan-backend/internal/domain"

// ImportResult describes a finished import.
type ImportResult struct {
	Dictionary domain.Dictionary
	Banks      int
	Skipped    int
}
