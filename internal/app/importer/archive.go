// Package importer parses Yomitan dictionary archives: a zip holding
// index.json and numbered term_bank_N.json files.
// Pure function: archive in, domain structs out. No database dependencies.
package importer

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

// ErrInvalidArchive marks input that is not a usable Yomitan dictionary.
var ErrInvalidArchive = errors.New("invalid dictionary archive")

// ErrTooLarge is returned, wrapped in ErrInvalidArchive, when the archive
// unpacks to more than the allowed number of bytes.
var ErrTooLarge = errors.New("unpacked size limit exceeded")

// DefaultMaxUnpacked is the unpacked size limit used when none is given.
const DefaultMaxUnpacked int64 = 1 << 30

const (
	indexFile      = "index.json"
	termBankPrefix = "term_bank_"
)

// Index is the subset of index.json the importer uses.
type Index struct {
	Title          string `json:"title"`
	Revision       string `json:"revision"`
	Format         int    `json:"format"`
	Version        int    `json:"version"`
	SourceLanguage string `json:"sourceLanguage"`
	Author         string `json:"author"`
	URL            string `json:"url"`
}

// FormatVersion returns format, falling back to the older version field.
func (i Index) FormatVersion() int {
	if i.Format != 0 {
		return i.Format
	}
	return i.Version
}

// Stats holds parser statistics for logging.
type Stats struct {
	Banks   int
	Terms   int
	Skipped int
}

// Dictionary is a parsed archive.
type Dictionary struct {
	Index Index
	Terms []domain.Term
	Stats Stats
}

// Open parses the archive at path. See Parse for maxUnpacked.
func Open(path string, maxUnpacked int64) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return Parse(f, info.Size(), maxUnpacked)
}

// Parse reads a Yomitan archive. Only format 3 term banks are supported.
// The index and term banks together may unpack to at most maxUnpacked
// bytes; zero or less means DefaultMaxUnpacked.
func Parse(r io.ReaderAt, size int64, maxUnpacked int64) (*Dictionary, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if maxUnpacked <= 0 {
		maxUnpacked = DefaultMaxUnpacked
	}
	b := &budget{limit: maxUnpacked, remain: maxUnpacked}

	var (
		indexZF *zip.File
		banks   []bankFile
	)
	for _, f := range zr.File {
		name := path.Base(f.Name)
		n, isBank := termBankNumber(name)
		switch {
		case name == indexFile:
			indexZF = f
		case isBank:
			banks = append(banks, bankFile{n: n, f: f})
		default:
			continue
		}
		// Headers can lie; the budget is enforced again while reading.
		if err := b.declare(f.UncompressedSize64); err != nil {
			return nil, err
		}
	}
	b.remain = b.limit
	if indexZF == nil {
		return nil, fmt.Errorf("%w: %s missing", ErrInvalidArchive, indexFile)
	}

	idx, err := readIndex(indexZF, b)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(banks, func(a, b bankFile) int { return a.n - b.n })

	d := &Dictionary{Index: idx}
	for _, bank := range banks {
		terms, skipped, err := readTermBank(bank.f, b)
		if err != nil {
			return nil, err
		}
		d.Terms = append(d.Terms, terms...)
		d.Stats.Banks++
		d.Stats.Skipped += skipped
	}
	d.Stats.Terms = len(d.Terms)

	return d, nil
}

type bankFile struct {
	n int
	f *zip.File
}

// termBankNumber extracts N from term_bank_N.json.
func termBankNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, termBankPrefix)
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, ".json")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func readIndex(f *zip.File, b *budget) (Index, error) {
	rc, err := f.Open()
	if err != nil {
		return Index{}, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	var idx Index
	if err := json.NewDecoder(b.reader(rc)).Decode(&idx); err != nil {
		return Index{}, archiveError(f.Name, "decode", err)
	}

	idx.Title = strings.TrimSpace(idx.Title)
	if idx.Title == "" {
		return Index{}, fmt.Errorf("%w: %s has no title", ErrInvalidArchive, f.Name)
	}
	if v := idx.FormatVersion(); v != 3 {
		return Index{}, fmt.Errorf("%w: unsupported format %d", ErrInvalidArchive, v)
	}
	return idx, nil
}

func readTermBank(f *zip.File, b *budget) ([]domain.Term, int, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	terms, skipped, err := parseTermBank(b.reader(rc))
	if err != nil {
		return nil, 0, archiveError(f.Name, "parse", err)
	}
	return terms, skipped, nil
}

func archiveError(name, op string, err error) error {
	if errors.Is(err, ErrTooLarge) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArchive, name, err)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrInvalidArchive, op, name, err)
}

// budget is the unpacked byte allowance shared by every file of one archive.
type budget struct {
	limit  int64
	remain int64
}

func (b *budget) declare(n uint64) error {
	if n > uint64(b.remain) {
		return fmt.Errorf("%w: %w (%d bytes)", ErrInvalidArchive, ErrTooLarge, b.limit)
	}
	b.remain -= int64(n)
	return nil
}

func (b *budget) reader(r io.Reader) io.Reader {
	return &budgetReader{r: io.LimitReader(r, b.remain+1), b: b}
}

type budgetReader struct {
	r io.Reader
	b *budget
}

func (br *budgetReader) Read(p []byte) (int, error) {
	n, err := br.r.Read(p)
	br.b.remain -= int64(n)
	if br.b.remain < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
