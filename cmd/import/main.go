// Command import loads Yomitan dictionary archives into the database. It is
// intended to be run offline, next to or instead of the HTTP import endpoint.
//
// Flags:
//
//	--file     path to a dictionary .zip (repeatable via comma list)
//	--reset    replace every imported dictionary with --file in one transaction
//	--dry-run  parse the archives and print stats without touching the DB
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/heartmarshall/yomitan-backend/internal/adapter/postgres"
	"github.com/heartmarshall/yomitan-backend/internal/adapter/postgres/term"
	"github.com/heartmarshall/yomitan-backend/internal/app"
	"github.com/heartmarshall/yomitan-backend/internal/app/importer"
	"github.com/heartmarshall/yomitan-backend/internal/config"
	"github.com/heartmarshall/yomitan-backend/internal/service/dictionary"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fileFlag := fs.String("file", "", "comma-separated dictionary archives to import")
	resetFlag := fs.Bool("reset", false, "replace all dictionaries with --file")
	dryRunFlag := fs.Bool("dry-run", false, "parse archives without writing to DB")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	files := splitFiles(*fileFlag)
	if len(files) == 0 && !*resetFlag {
		fmt.Fprintln(stderr, "usage: import --file dict.zip[,other.zip] [--reset] [--dry-run]")
		return 1
	}

	if *dryRunFlag {
		if err := dryRun(stdout, files); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	pool, err := app.OpenDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		return 1
	}
	defer pool.Close()

	tx := postgres.NewTxManager(pool)
	svc := dictionary.NewService(logger, term.New(pool), tx, cfg.Dictionary)

	if *resetFlag {
		// Reset and reload commit together; a failed import keeps the old data.
		err := tx.RunInTx(ctx, func(ctx context.Context) error {
			if _, err := svc.Reset(ctx); err != nil {
				return err
			}
			for _, path := range files {
				if err := importFile(ctx, stdout, svc, path); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		})
		if err != nil {
			logger.Error("reset and import failed, nothing changed", slog.String("error", err.Error()))
			return 1
		}
		return 0
	}

	code := 0
	for _, path := range files {
		if err := importFile(ctx, stdout, svc, path); err != nil {
			logger.Error("import failed", slog.String("file", path), slog.String("error", err.Error()))
			code = 1
		}
	}
	return code
}

func importFile(ctx context.Context, w io.Writer, svc *dictionary.Service, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	res, err := svc.Import(ctx, f, info.Size())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d terms from %d banks (%d rows skipped)\n",
		res.Dictionary.Title, res.Dictionary.TermCount, res.Banks, res.Skipped)
	return nil
}

func dryRun(w io.Writer, files []string) error {
	for _, path := range files {
		d, err := importer.Open(path, importer.DefaultMaxUnpacked)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(w, "%s: %q rev %s, %d terms from %d banks (%d rows skipped)\n",
			path, d.Index.Title, d.Index.Revision, d.Stats.Terms, d.Stats.Banks, d.Stats.Skipped)
	}
	return nil
}

func splitFiles(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
