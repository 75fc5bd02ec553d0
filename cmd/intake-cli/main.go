package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/goliatone/go-intake/internal/app"
	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/internal/logging"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "intake-cli:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("intake-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	localeCode := fs.String("locale", "", "language to start in (defaults to the catalog default)")
	backend := fs.String("backend", "", "override INTAKE_BACKEND (memory, supabase, postgres)")
	dryRun := fs.Bool("dry-run", false, "keep submissions in memory and print the record")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Backend = config.Backend(*backend)
	}
	if *dryRun {
		cfg.Backend = config.BackendMemory
		cfg.RedisURL = ""
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	runner, err := tui.New(a.Service,
		tui.WithPromptDriver(tui.NewSurveyDriver(stdout)),
		tui.WithLogger(log),
		tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
	)
	if err != nil {
		return err
	}
	view, err := runner.Run(ctx, *localeCode)
	if err != nil {
		return err
	}

	if a.Records != nil {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		for _, record := range a.Records.Records() {
			if err := enc.Encode(record); err != nil {
				return err
			}
		}
	}
	log.Debug("session finished", "session_id", view.ID)
	return nil
}
