package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
	"github.com/heartmarshall/yomitan-backend/internal/language"
	"github.com/heartmarshall/yomitan-backend/internal/service/lookup"
)

type lookupService interface {
	Lookup(ctx context.Context, input lookup.Input) ([]domain.LookupResult, error)
}

type languageRegistry interface {
	Candidates(code, text string) ([]deinflect.Candidate, error)
	ConditionNames(code string, set deinflect.ConditionSet) []string
	Statuses() []language.Status
}

// LookupHandler serves the read-only lookup endpoints.
type LookupHandler struct {
	svc   lookupService
	langs languageRegistry
	log   *slog.Logger
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(svc lookupService, langs languageRegistry, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{svc: svc, langs: langs, log: logger.With("handler", "lookup")}
}

type formResponse struct {
	Headword string `json:"headword"`
	Reading  string `json:"reading"`
}

type definitionResponse struct {
	DictionaryID   string   `json:"dictionaryId"`
	DictionaryName string   `json:"dictionaryName"`
	Tags           []string `json:"tags"`
	Content        any      `json:"content"`
}

type lookupResponse struct {
	Headword    string               `json:"headword"`
	Reading     string               `json:"reading"`
	Furigana    [][2]string          `json:"furigana"`
	Definitions []definitionResponse `json:"definitions"`
	Forms       []formResponse       `json:"forms"`
	MatchedText string               `json:"matchedText"`
	Inflections []string             `json:"inflections"`
}

type candidateResponse struct {
	Text       string                 `json:"text"`
	Conditions []string               `json:"conditions"`
	Trace      []deinflect.TraceFrame `json:"trace"`
}

type deinflectResponse struct {
	Language   string              `json:"lang"`
	Text       string              `json:"text"`
	Terms      []string            `json:"terms"`
	Candidates []candidateResponse `json:"candidates"`
}

type languageResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Ready    bool   `json:"ready"`
	Rules    int    `json:"rules"`
	Error    string `json:"error,omitempty"`
	LoadTime string `json:"loadTime"`
}

// Lookup handles GET /api/lookup?lang=&text=&index=.
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := lookup.Input{
		Language: q.Get("lang"),
		Text:     q.Get("text"),
	}
	if raw := q.Get("index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "index must be an integer")
			return
		}
		input.Index = n
	}

	results, err := h.svc.Lookup(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := make([]lookupResponse, len(results))
	for i, res := range results {
		resp[i] = toLookupResponse(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Deinflect handles GET /api/deinflect?lang=&text=. It exposes the raw
// candidate list for debugging rule tables.
func (h *LookupHandler) Deinflect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang := q.Get("lang")
	text := domain.NormalizeText(q.Get("text"))
	if lang == "" || text == "" {
		writeError(w, http.StatusBadRequest, "lang and text are required")
		return
	}

	cs, err := h.langs.Candidates(lang, text)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := deinflectResponse{
		Language:   lang,
		Text:       text,
		Terms:      deinflect.Terms(cs),
		Candidates: make([]candidateResponse, len(cs)),
	}
	for i, c := range cs {
		trace := c.Trace
		if trace == nil {
			trace = []deinflect.TraceFrame{}
		}
		resp.Candidates[i] = candidateResponse{
			Text:       c.Text,
			Conditions: nonNil(h.langs.ConditionNames(lang, c.Conditions)),
			Trace:      trace,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Languages handles GET /api/languages.
func (h *LookupHandler) Languages(w http.ResponseWriter, r *http.Request) {
	statuses := h.langs.Statuses()
	resp := make([]languageResponse, len(statuses))
	for i, s := range statuses {
		resp[i] = languageResponse{
			Code:     s.Code,
			Name:     s.Name,
			Ready:    s.Ready,
			Rules:    s.Rules,
			LoadTime: s.LoadTime.String(),
		}
		if s.Err != nil {
			resp[i].Error = s.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"languages": resp})
}

func toLookupResponse(res domain.LookupResult) lookupResponse {
	out := lookupResponse{
		Headword:    res.Headword,
		Reading:     res.Reading,
		Furigana:    make([][2]string, len(res.Furigana)),
		Definitions: make([]definitionResponse, len(res.Definitions)),
		Forms:       make([]formResponse, len(res.Forms)),
		MatchedText: res.MatchedText,
		Inflections: nonNil(res.Inflections),
	}
	for i, seg := range res.Furigana {
		out.Furigana[i] = [2]string{seg.Text, seg.Ruby}
	}
	for i, d := range res.Definitions {
		var content any = d.Content
		if len(d.Content) == 0 {
			content = []any{}
		}
		out.Definitions[i] = definitionResponse{
			DictionaryID:   d.DictionaryID.String(),
			DictionaryName: d.DictionaryTitle,
			Tags:           nonNil(d.Tags),
			Content:        content,
		}
	}
	for i, f := range res.Forms {
		out.Forms[i] = formResponse{Headword: f.Headword, Reading: f.Reading}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
