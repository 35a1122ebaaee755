// Package language holds the per-language deinflection registry built at
// startup. A language that fails to load is recorded as unavailable and does
// not affect the others.
package language

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
	"github.com/heartmarshall/yomitan-backend/internal/deinflect/english"
	"github.com/heartmarshall/yomitan-backend/internal/deinflect/japanese"
	"github.com/heartmarshall/yomitan-backend/internal/deinflect/korean"
	"github.com/heartmarshall/yomitan-backend/internal/deinflect/spanish"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Language describes how to build and run one language's deinflector.
type Language struct {
	Code string
	Name string
	// Load builds the transformer. It runs once, at registry construction.
	Load func() (*deinflect.Transformer, error)
	// Expand runs the search. Nil means the transformer's own Deinflect.
	Expand func(t *deinflect.Transformer, text string) []deinflect.Candidate
}

// Status reports the load outcome of one language.
type Status struct {
	Code     string
	Name     string
	Ready    bool
	Rules    int
	Err      error
	LoadTime time.Duration
}

type entry struct {
	lang   Language
	tr     *deinflect.Transformer
	status Status
}

// Registry maps language codes to loaded transformers. It is read-only after
// New returns and safe for concurrent use.
type Registry struct {
	entries []entry
	byCode  map[string]int
}

// Builtin returns the built-in languages in display order.
func Builtin() []Language {
	return []Language{
		{Code: english.Code, Name: "English", Load: english.New},
		{Code: japanese.Code, Name: "Japanese", Load: japanese.New},
		{Code: spanish.Code, Name: "Spanish", Load: spanish.New},
		{Code: korean.Code, Name: "Korean", Load: korean.New, Expand: korean.Candidates},
	}
}

// New loads every language concurrently, at most GOMAXPROCS at a time.
// Failures are logged and kept in the language's Status; New itself fails
// only on duplicate codes or when ctx is done before loading finishes.
func New(ctx context.Context, logger *slog.Logger, langs []Language) (*Registry, error) {
	log := logger.With("service", "language")

	r := &Registry{
		entries: make([]entry, len(langs)),
		byCode:  make(map[string]int, len(langs)),
	}
	for i, l := range langs {
		if _, dup := r.byCode[l.Code]; dup {
			return nil, fmt.Errorf("language: duplicate code %q", l.Code)
		}
		r.byCode[l.Code] = i
		r.entries[i].lang = l
	}

	// A failing language is recorded in its Status and the goroutine returns
	// nil, so only cancellation of ctx stops the group.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range r.entries {
		e := &r.entries[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			tr, err := load(e.lang)
			e.status = Status{Code: e.lang.Code, Name: e.lang.Name, LoadTime: time.Since(start)}
			if err != nil {
				e.status.Err = err
				log.ErrorContext(ctx, "language load failed", slog.String("lang", e.lang.Code), slog.String("error", err.Error()))
				return nil
			}
			e.tr = tr
			e.status.Ready = true
			e.status.Rules = tr.RuleCount()
			log.InfoContext(ctx, "language loaded",
				slog.String("lang", e.lang.Code),
				slog.Int("rules", e.status.Rules),
				slog.Duration("took", e.status.LoadTime),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("language: load interrupted: %w", err)
	}

	return r, nil
}

// load guards against a loader that panics so the failure stays local to
// its language.
func load(l Language) (tr *deinflect.Transformer, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("load %s: panic: %v", l.Code, p)
		}
	}()
	if l.Load == nil {
		return nil, fmt.Errorf("load %s: no loader", l.Code)
	}
	tr, err = l.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.Code, err)
	}
	return tr, nil
}

// Load builds the registry for the languages enabled in cfg. When
// cfg.TableDir holds <code>.json, that table replaces the built-in rules.
func Load(ctx context.Context, logger *slog.Logger, cfg config.LanguagesConfig) (*Registry, error) {
	enabled := cfg.Codes()
	var langs []Language
	for _, l := range Builtin() {
		if !slices.Contains(enabled, l.Code) {
			continue
		}
		if path := cfg.TablePath(l.Code); path != "" {
			l.Load = tableFile(path)
		}
		langs = append(langs, l)
	}
	return New(ctx, logger, langs)
}

func tableFile(path string) func() (*deinflect.Transformer, error) {
	return func() (*deinflect.Transformer, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return deinflect.DecodeTable(f)
	}
}

// Candidates returns the full candidates for text in language code.
func (r *Registry) Candidates(code, text string) ([]deinflect.Candidate, error) {
	e, err := r.ready(code)
	if err != nil {
		return nil, err
	}
	if e.lang.Expand != nil {
		return e.lang.Expand(e.tr, text), nil
	}
	return e.tr.Deinflect(text), nil
}

// Deinflect returns the distinct candidate strings for text in language
// code, input first.
func (r *Registry) Deinflect(code, text string) ([]string, error) {
	cs, err := r.Candidates(code, text)
	if err != nil {
		return nil, err
	}
	return deinflect.Terms(cs), nil
}

// ConditionNames resolves a candidate's condition set for language code.
func (r *Registry) ConditionNames(code string, set deinflect.ConditionSet) []string {
	e, err := r.ready(code)
	if err != nil {
		return nil
	}
	return e.tr.ConditionNames(set)
}

func (r *Registry) ready(code string) (*entry, error) {
	i, ok := r.byCode[code]
	if !ok {
		return nil, domain.NewValidationError("lang", fmt.Sprintf("unsupported language %q", code))
	}
	e := &r.entries[i]
	if !e.status.Ready {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLanguageUnavailable, code, e.status.Err)
	}
	return e, nil
}

// Statuses returns one Status per configured language, in registration order.
func (r *Registry) Statuses() []Status {
	out := make([]Status, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.status
	}
	return out
}

// Ready reports whether at least one language loaded.
func (r *Registry) Ready() bool {
	for _, e := range r.entries {
		if e.status.Ready {
			return true
		}
	}
	return false
}

// Has reports whether code is configured, loaded or not.
func (r *Registry) Has(code string) bool {
	_, ok := r.byCode[code]
	return ok
}
