package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/yomitan-backend/internal/domain"
	"github.com/heartmarshall/yomitan-backend/internal/service/dictionary"
)

type dictionaryService interface {
	List(ctx context.Context) ([]domain.Dictionary, error)
	Import(ctx context.Context, r io.ReaderAt, size int64) (*dictionary.ImportResult, error)
	Reset(ctx context.Context) (int64, error)
}

// DictionaryHandler serves dictionary catalog and import endpoints.
type DictionaryHandler struct {
	svc            dictionaryService
	maxUploadBytes int64
	log            *slog.Logger
}

// NewDictionaryHandler creates a DictionaryHandler. Uploads larger than
// maxUploadBytes are rejected with 413.
func NewDictionaryHandler(svc dictionaryService, maxUploadBytes int64, logger *slog.Logger) *DictionaryHandler {
	return &DictionaryHandler{svc: svc, maxUploadBytes: maxUploadBytes, log: logger.With("handler", "dictionary")}
}

type dictionaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Revision  string    `json:"revision"`
	Language  string    `json:"language,omitempty"`
	TermCount int       `json:"termCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type listResponse struct {
	Dictionaries []dictionaryResponse `json:"dictionaries"`
	TotalTerms   int                  `json:"totalTerms"`
}

type importResponse struct {
	Status     string             `json:"status"`
	Dictionary dictionaryResponse `json:"dictionary"`
	Banks      int                `json:"banks"`
	Skipped    int                `json:"skipped"`
}

// List handles GET /api/dictionaries.
func (h *DictionaryHandler) List(w http.ResponseWriter, r *http.Request) {
	dicts, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := listResponse{Dictionaries: make([]dictionaryResponse, len(dicts))}
	for i, d := range dicts {
		resp.Dictionaries[i] = toDictionaryResponse(d)
		resp.TotalTerms += d.TermCount
	}
	writeJSON(w, http.StatusOK, resp)
}

// Import handles POST /api/dictionaries/import with the archive in the
// multipart field "file".
func (h *DictionaryHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "missing file field")
		default:
			writeError(w, http.StatusBadRequest, "invalid multipart body")
		}
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll() //nolint:errcheck
	}

	h.log.InfoContext(r.Context(), "dictionary upload received",
		slog.String("filename", header.Filename),
		slog.Int64("bytes", header.Size),
	)

	result, err := h.svc.Import(r.Context(), file, header.Size)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, importResponse{
		Status:     "ok",
		Dictionary: toDictionaryResponse(result.Dictionary),
		Banks:      result.Banks,
		Skipped:    result.Skipped,
	})
}

// Reset handles POST /api/dictionaries/reset.
func (h *DictionaryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Reset(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "deleted": n})
}

func toDictionaryResponse(d domain.Dictionary) dictionaryResponse {
	return dictionaryResponse{
		ID:        d.ID.String(),
		Title:     d.Title,
		Revision:  d.Revision,
		Language:  d.Language,
		TermCount: d.TermCount,
		CreatedAt: d.CreatedAt,
	}
}
