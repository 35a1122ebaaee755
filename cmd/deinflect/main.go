// Command deinflect prints the deinflection candidates of words without a
// database. Words come from the arguments, or from stdin one per line.
//
// Flags:
//
//	--lang    language code (default: en)
//	--tables  directory of <code>.json tables overriding the built-in rules
//	--json    print candidates as JSON lines
//	--trace   print conditions and the transform chain of every candidate
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/heartmarshall/yomitan-backend/internal/app"
	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
	"github.com/heartmarshall/yomitan-backend/internal/language"
)

type options struct {
	lang  string
	json  bool
	trace bool
}

type candidateLine struct {
	Input      string                 `json:"input"`
	Text       string                 `json:"text"`
	Conditions []string               `json:"conditions"`
	Trace      []deinflect.TraceFrame `json:"trace"`
}

func main() {
	langFlag := flag.String("lang", "en", "language code")
	tablesFlag := flag.String("tables", "", "directory of <code>.json rule tables")
	jsonFlag := flag.Bool("json", false, "print JSON lines")
	traceFlag := flag.Bool("trace", false, "print conditions and transform chains")
	flag.Parse()

	logger := app.NewLogger(config.LogConfig{Level: "warn", Format: "text"})

	reg, err := language.Load(context.Background(), logger, config.LanguagesConfig{
		Enabled:  *langFlag,
		TableDir: *tablesFlag,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := options{lang: strings.ToLower(*langFlag), json: *jsonFlag, trace: *traceFlag}
	if !reg.Has(opts.lang) {
		fmt.Fprintf(os.Stderr, "unsupported language %q (known: %v)\n", opts.lang, config.KnownLanguages)
		os.Exit(1)
	}

	words := flag.Args()
	if len(words) == 0 {
		words, err = readLines(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for _, w := range words {
		if err := printWord(out, reg, opts, w); err != nil {
			out.Flush()
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func printWord(w io.Writer, reg *language.Registry, opts options, word string) error {
	text := domain.NormalizeText(word)
	if text == "" {
		return nil
	}

	cs, err := reg.Candidates(opts.lang, text)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(w)
		for _, c := range cs {
			line := candidateLine{
				Input:      text,
				Text:       c.Text,
				Conditions: reg.ConditionNames(opts.lang, c.Conditions),
				Trace:      c.Trace,
			}
			if err := enc.Encode(line); err != nil {
				return err
			}
		}
		return nil
	}

	if !opts.trace {
		_, err := fmt.Fprintf(w, "%s\t%s\n", text, strings.Join(deinflect.Terms(cs), " "))
		return err
	}

	fmt.Fprintf(w, "%s\n", text)
	for _, c := range cs {
		chain := make([]string, len(c.Trace))
		for i, f := range c.Trace {
			chain[i] = f.Transform
		}
		fmt.Fprintf(w, "  %s\t[%s]\t%s\n",
			c.Text,
			strings.Join(reg.ConditionNames(opts.lang, c.Conditions), ","),
			strings.Join(chain, " < "),
		)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
