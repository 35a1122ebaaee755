//go:build e2e

package app

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/yomitan-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/language"
	"github.com/heartmarshall/yomitan-backend/internal/transport/middleware"
)

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

type testServer struct {
	URL    string
	Client *http.Client
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper).
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	cfg := &config.Config{
		Server:     config.ServerConfig{MaxUploadBytes: 8 << 20, WriteRateLimit: 100},
		Dictionary: config.DictionaryConfig{ImportChunkSize: 2},
		Languages:  config.LanguagesConfig{Enabled: "en,ja"},
		Lookup:     config.LookupConfig{MaxScanLength: 16, MaxResults: 50, MaxKeys: 512},
		CORS:       config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST"},
	}

	registry, err := language.Load(context.Background(), logger, cfg.Languages)
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	srv := httptest.NewServer(buildHandler(cfg, pool, registry, limiter, logger))
	t.Cleanup(srv.Close)

	resetAll(t, &testServer{URL: srv.URL, Client: srv.Client()})
	return &testServer{URL: srv.URL, Client: srv.Client()}
}

func resetAll(t *testing.T, ts *testServer) {
	t.Helper()
	resp, err := ts.Client.Post(ts.URL+"/api/dictionaries/reset", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// buildArchive returns a Yomitan format 3 archive holding rows in one bank.
func buildArchive(t *testing.T, title, lang string, rows []any) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, v any) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}
	write("index.json", map[string]any{"title": title, "revision": "1", "format": 3, "sourceLanguage": lang})
	write("term_bank_1.json", rows)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func (ts *testServer) importArchive(t *testing.T, archive []byte) (int, map[string]any) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "dict.zip")
	require.NoError(t, err)
	_, err = fw.Write(archive)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := ts.Client.Post(ts.URL+"/api/dictionaries/import", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (ts *testServer) get(t *testing.T, path string, out any) int {
	t.Helper()

	resp, err := ts.Client.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), string(raw))
	return resp.StatusCode
}

type lookupEntry struct {
	Headword    string     `json:"headword"`
	Reading     string     `json:"reading"`
	Furigana    [][]string `json:"furigana"`
	MatchedText string     `json:"matchedText"`
	Inflections []string   `json:"inflections"`
	Definitions []struct {
		DictionaryName string          `json:"dictionaryName"`
		Content        json.RawMessage `json:"content"`
	} `json:"definitions"`
}

func englishRows() []any {
	return []any{
		[]any{"cat", "", "n", "", 10, []any{"a small feline"}, 1, ""},
		[]any{"walk", "", "v", "v", 5, []any{"to move on foot"}, 2, ""},
		[]any{"cute", "", "adj", "", 1, []any{"attractive"}, 3, ""},
	}
}

func TestE2E_ImportThenLookup(t *testing.T) {
	ts := setupTestServer(t)

	status, body := ts.importArchive(t, buildArchive(t, "E2E English", "en", englishRows()))
	require.Equal(t, http.StatusCreated, status, body)
	dict := body["dictionary"].(map[string]any)
	assert.Equal(t, "E2E English", dict["title"])
	assert.EqualValues(t, 3, dict["termCount"])

	var list struct {
		Dictionaries []map[string]any `json:"dictionaries"`
		TotalTerms   int              `json:"totalTerms"`
	}
	require.Equal(t, http.StatusOK, ts.get(t, "/api/dictionaries", &list))
	require.Len(t, list.Dictionaries, 1)
	assert.Equal(t, 3, list.TotalTerms)

	var results []lookupEntry
	q := url.Values{"lang": {"en"}, "text": {"Cats are cute"}}
	require.Equal(t, http.StatusOK, ts.get(t, "/api/lookup?"+q.Encode(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "cat", results[0].Headword)
	assert.Equal(t, "cats", results[0].MatchedText)
	assert.Equal(t, []string{"plural"}, results[0].Inflections)
	require.Len(t, results[0].Definitions, 1)
	assert.Equal(t, "E2E English", results[0].Definitions[0].DictionaryName)
	assert.JSONEq(t, `["a small feline"]`, string(results[0].Definitions[0].Content))

	q = url.Values{"lang": {"en"}, "text": {"so cute"}, "index": {"3"}}
	require.Equal(t, http.StatusOK, ts.get(t, "/api/lookup?"+q.Encode(), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "cute", results[0].Headword)
	assert.Empty(t, results[0].Inflections)
}

func TestE2E_JapaneseFurigana(t *testing.T) {
	ts := setupTestServer(t)

	rows := []any{
		[]any{"食べる", "たべる", "v1", "v1", 100, []any{"to eat"}, 1, ""},
	}
	status, body := ts.importArchive(t, buildArchive(t, "E2E JMdict", "ja", rows))
	require.Equal(t, http.StatusCreated, status, body)

	var results []lookupEntry
	q := url.Values{"lang": {"ja"}, "text": {"食べた"}}
	require.Equal(t, http.StatusOK, ts.get(t, "/api/lookup?"+q.Encode(), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "食べる", results[0].Headword)
	assert.Equal(t, "たべる", results[0].Reading)
	assert.Equal(t, "食べた", results[0].MatchedText)
	assert.Equal(t, [][]string{{"食", "た"}, {"べる", ""}}, results[0].Furigana)
}

func TestE2E_LongMatchSurvivesResultCap(t *testing.T) {
	ts := setupTestServer(t)

	// More single-kanji rows than max_results, all outscoring the full word.
	rows := make([]any, 0, 61)
	for i := range 60 {
		rows = append(rows, []any{"食", "しょく", "", "", 100, []any{"food " + strconv.Itoa(i)}, i + 1, ""})
	}
	rows = append(rows, []any{"食べる", "たべる", "v1", "v1", 0, []any{"to eat"}, 100, ""})
	status, body := ts.importArchive(t, buildArchive(t, "E2E Kanji", "ja", rows))
	require.Equal(t, http.StatusCreated, status, body)

	var results []lookupEntry
	q := url.Values{"lang": {"ja"}, "text": {"食べる"}}
	require.Equal(t, http.StatusOK, ts.get(t, "/api/lookup?"+q.Encode(), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "食べる", results[0].Headword)
	assert.Equal(t, "食べる", results[0].MatchedText)
}

func TestE2E_DuplicateImportConflicts(t *testing.T) {
	ts := setupTestServer(t)

	archive := buildArchive(t, "E2E Dup", "en", englishRows())
	status, _ := ts.importArchive(t, archive)
	require.Equal(t, http.StatusCreated, status)

	status, body := ts.importArchive(t, archive)
	assert.Equal(t, http.StatusConflict, status, body)

	var list struct {
		TotalTerms int `json:"totalTerms"`
	}
	require.Equal(t, http.StatusOK, ts.get(t, "/api/dictionaries", &list))
	assert.Equal(t, 3, list.TotalTerms, "failed import must not leave rows behind")
}

func TestE2E_ResetClearsLookups(t *testing.T) {
	ts := setupTestServer(t)

	status, _ := ts.importArchive(t, buildArchive(t, "E2E Reset", "en", englishRows()))
	require.Equal(t, http.StatusCreated, status)

	resetAll(t, ts)

	var results []lookupEntry
	require.Equal(t, http.StatusOK, ts.get(t, "/api/lookup?lang=en&text=cat", &results))
	assert.Empty(t, results)
}

func TestE2E_HealthAndLanguages(t *testing.T) {
	ts := setupTestServer(t)

	var health struct {
		Status     string                       `json:"status"`
		Components map[string]map[string]string `json:"components"`
	}
	require.Equal(t, http.StatusOK, ts.get(t, "/health", &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Components["database"]["status"])
	assert.Equal(t, "ok", health.Components["language:en"]["status"])
	assert.Equal(t, "ok", health.Components["language:ja"]["status"])

	var langs struct {
		Languages []map[string]any `json:"languages"`
	}
	require.Equal(t, http.StatusOK, ts.get(t, "/api/languages", &langs))
	require.Len(t, langs.Languages, 2)

	var errBody map[string]any
	assert.Equal(t, http.StatusBadRequest, ts.get(t, "/api/lookup?lang=xx&text=a", &errBody))
	assert.NotEmpty(t, errBody["error"])
}
