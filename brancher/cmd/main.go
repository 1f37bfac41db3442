// Command create_issue_branch derives a normalized git
// branch name from an issue tracker ticket and creates
// the branch locally, optionally pushing it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/issueops/brancher"
	"github.com/byte4ever/issueops/config"
	"github.com/byte4ever/issueops/git"
	"github.com/byte4ever/issueops/tracker"
	"github.com/byte4ever/issueops/translate"
	"github.com/byte4ever/issueops/translate/google"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	const errCtx = "running create_issue_branch"

	configPath := flag.String(
		"config", config.DefaultPath,
		"Configuration file path",
	)
	template := flag.String(
		"template", "",
		"Branch name format override "+
			"(defaults to the configured format)",
	)
	push := flag.Bool(
		"push", false,
		"Push the branch after creation, "+
			"regardless of the auto_push setting",
	)
	verbose := flag.Bool(
		"verbose", false,
		"Enable debug logging",
	)

	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf(
			"%s: usage: create_issue_branch [flags] ISSUE_ID",
			errCtx,
		)
	}

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	trk, err := tracker.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tmpl := cfg.BranchNameFormat
	if *template != "" {
		tmpl = *template
	}

	gate := &translate.Gate{
		SourceLang: cfg.TranslateSourceLang,
	}
	if cfg.TranslateTitles {
		gate.Translator = google.NewClient()
	}

	name, err := brancher.Run(
		context.Background(),
		brancher.Config{
			IssueID:         flag.Arg(0),
			Template:        tmpl,
			TranslateTitles: cfg.TranslateTitles,
			AutoPush:        cfg.AutoPush || *push,
			Tracker:         trk,
			Repo:            git.NewRepo(""),
			Gate:            gate,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	fmt.Printf("Branch name: %s\n", name)

	return nil
}
