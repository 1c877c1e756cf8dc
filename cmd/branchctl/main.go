package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/yourorg/branch-search/branch"
	"github.com/yourorg/branch-search/internal/config"
	"github.com/yourorg/branch-search/internal/logger"
	"github.com/yourorg/branch-search/source"
	"github.com/yourorg/branch-search/view"
	"github.com/yourorg/branch-search/widget"
)

type options struct {
	query  string
	detail string
	json   bool
}

func main() {
	cfg := config.FromEnv()
	var opts options

	fs := pflag.NewFlagSet("branchctl", pflag.ContinueOnError)
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "sheets, list or database")
	fs.StringVar(&cfg.SheetID, "sheet-id", cfg.SheetID, "spreadsheet identifier")
	fs.StringVar(&cfg.ListEndpoint, "endpoint", cfg.ListEndpoint, "list-service items endpoint")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "postgres DSN for the database backend")
	fs.StringVarP(&opts.query, "query", "q", "", "search text; separate several searches with commas")
	fs.StringVarP(&opts.detail, "detail", "d", "", "show the detail view for this location code")
	fs.BoolVar(&opts.json, "json", false, "print normalized records as JSON instead of markup")
	fs.StringVar(&cfg.LogLevel, "log-level", "warn", "debug, info, warn or error")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	// the CLI always reads the upstream directly
	cfg.RedisAddr = ""
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "branchctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, out io.Writer) error {
	log, err := logger.New(cfg.LogLevel, "console")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	src, closeSrc, err := source.New(cfg, nil, log)
	if err != nil {
		return err
	}
	defer closeSrc()

	if opts.detail != "" {
		records, err := widget.Lookup(ctx, src, opts.detail)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no branch with location code %q", opts.detail)
		}
		return emit(out, opts, records, view.Detail(records, src.RecordURL()))
	}

	queries := splitList(opts.query)
	if len(queries) == 0 {
		queries = []string{""}
	}
	for _, q := range queries {
		records, err := widget.Search(ctx, src, q)
		if err != nil {
			return err
		}
		if err := emit(out, opts, records, view.List(records)); err != nil {
			return err
		}
	}
	return nil
}

func emit(out io.Writer, opts options, records []branch.Record, markup string) error {
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	_, err := fmt.Fprintln(out, markup)
	return err
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	fields := strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '\r', '\t':
			return true
		default:
			return false
		}
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
