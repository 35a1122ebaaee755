package language

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func corrupt() Language {
	return Language{
		Code: "xx",
		Name: "Broken",
		Load: func() (*deinflect.Transformer, error) {
			return deinflect.ParseTable([]byte(`{"transforms": [`))
		},
	}
}

func TestNew_CorruptLanguageIsIsolated(t *testing.T) {
	t.Parallel()

	langs := append(Builtin(), corrupt())
	r, err := New(context.Background(), discardLogger(), langs)
	require.NoError(t, err)

	assert.True(t, r.Ready())

	statuses := r.Statuses()
	require.Len(t, statuses, 5)
	for _, s := range statuses[:4] {
		assert.True(t, s.Ready, "language %s should load", s.Code)
		assert.NoError(t, s.Err)
		assert.Positive(t, s.Rules)
	}
	assert.Equal(t, "xx", statuses[4].Code)
	assert.False(t, statuses[4].Ready)
	assert.ErrorIs(t, statuses[4].Err, deinflect.ErrInvalidDescriptor)

	_, err = r.Deinflect("xx", "anything")
	assert.ErrorIs(t, err, domain.ErrLanguageUnavailable)

	got, err := r.Deinflect("en", "cats")
	require.NoError(t, err)
	assert.Contains(t, got, "cat")
}

func TestNew_PanickingLoaderIsIsolated(t *testing.T) {
	t.Parallel()

	r, err := New(context.Background(), discardLogger(), []Language{
		{Code: "en", Name: "English", Load: Builtin()[0].Load},
		{Code: "boom", Load: func() (*deinflect.Transformer, error) { panic("bad table") }},
		{Code: "none"},
	})
	require.NoError(t, err)

	st := r.Statuses()
	assert.True(t, st[0].Ready)
	assert.False(t, st[1].Ready)
	assert.ErrorContains(t, st[1].Err, "bad table")
	assert.False(t, st[2].Ready)
}

func TestNew_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := New(ctx, discardLogger(), []Language{{
		Code: "en",
		Name: "English",
		Load: func() (*deinflect.Transformer, error) {
			called = true
			return nil, errors.New("unreachable")
		},
	}})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestNew_DuplicateCode(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), discardLogger(), []Language{Builtin()[0], Builtin()[0]})
	require.Error(t, err)
}

func TestRegistry_UnknownLanguage(t *testing.T) {
	t.Parallel()

	r, err := New(context.Background(), discardLogger(), Builtin())
	require.NoError(t, err)

	_, err = r.Deinflect("fr", "chats")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, r.Has("fr"))
	assert.True(t, r.Has("ko"))
}

func TestRegistry_KoreanGoesThroughCodec(t *testing.T) {
	t.Parallel()

	r, err := New(context.Background(), discardLogger(), Builtin())
	require.NoError(t, err)

	got, err := r.Deinflect("ko", "한글이다")
	require.NoError(t, err)
	assert.Equal(t, "한글이다", got[0])
	assert.Contains(t, got, "한글")

	cs, err := r.Candidates("ko", "갔다")
	require.NoError(t, err)
	for _, c := range cs {
		if c.Text == "가다" {
			assert.Equal(t, []string{"adj", "p", "v"}, r.ConditionNames("ko", c.Conditions))
			return
		}
	}
	t.Fatal("가다 not found")
}

func TestRegistry_NoneReady(t *testing.T) {
	t.Parallel()

	r, err := New(context.Background(), discardLogger(), []Language{corrupt()})
	require.NoError(t, err)
	assert.False(t, r.Ready())
}

func TestLoad_EnabledSubsetAndTableOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	table := `{"language":"es","conditions":{"v":{}},"transforms":[{"id":"x","rules":[{"type":"suffix","inflected":"zz","deinflected":"","conditionsIn":[],"conditionsOut":["v"]}]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "es.json"), []byte(table), 0o644))

	r, err := Load(context.Background(), discardLogger(), config.LanguagesConfig{
		Enabled:  "es,ko",
		TableDir: dir,
	})
	require.NoError(t, err)

	assert.False(t, r.Has("en"))
	require.Len(t, r.Statuses(), 2)

	got, err := r.Deinflect("es", "fuzz")
	require.NoError(t, err)
	assert.Equal(t, []string{"fuzz", "fu"}, got)

	// The embedded Spanish rules were replaced.
	got, err = r.Deinflect("es", "gatos")
	require.NoError(t, err)
	assert.Equal(t, []string{"gatos"}, got)
}

func TestLoad_CorruptTableOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ja.json"), []byte("not json"), 0o644))

	r, err := Load(context.Background(), discardLogger(), config.LanguagesConfig{Enabled: "en,ja", TableDir: dir})
	require.NoError(t, err)

	st := r.Statuses()
	require.Len(t, st, 2)
	assert.True(t, st[0].Ready)
	assert.False(t, st[1].Ready)
	assert.True(t, errors.Is(st[1].Err, deinflect.ErrInvalidDescriptor))
}
