package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, dir string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"index.json":       `{"title": "Mini", "revision": "1", "format": 3, "sourceLanguage": "en"}`,
		"term_bank_1.json": `[["cat", "", "", "", 0, ["feline"], 1, ""], ["dog", "", "", "", 0, ["canine"], 2, ""]]`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "mini.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no files", args: nil, wantCode: 1, wantStderr: "usage:"},
		{name: "unknown flag", args: []string{"--bogus"}, wantCode: 1, wantStderr: "bogus"},
		{
			name:       "dry run",
			args:       []string{"--dry-run", "--file", archive},
			wantCode:   0,
			wantStdout: `"Mini" rev 1, 2 terms from 1 banks (0 rows skipped)`,
		},
		{
			name:       "dry run missing file",
			args:       []string{"--dry-run", "--file", filepath.Join(dir, "missing.zip")},
			wantCode:   1,
			wantStderr: "missing.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stdout.String(), tt.wantStdout)
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}

func TestSplitFiles(t *testing.T) {
	assert.Equal(t, []string{"a.zip", "b.zip"}, splitFiles(" a.zip, ,b.zip "))
	assert.Nil(t, splitFiles(""))
}
