// Command create_merge_request opens a GitLab merge
// request for the current branch, pushing it first and
// auto-generating the title from the originating issue
// when one can be recovered from the branch name.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/issueops/config"
	"github.com/byte4ever/issueops/git"
	glhost "github.com/byte4ever/issueops/hosting/gitlab"
	"github.com/byte4ever/issueops/mrer"
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
	const errCtx = "running create_merge_request"

	configPath := flag.String(
		"config", config.DefaultPath,
		"Configuration file path",
	)
	target := flag.String(
		"target", "",
		"Target branch "+
			"(defaults to the project default branch)",
	)
	title := flag.String(
		"title", "",
		"Merge request title "+
			"(defaults to issue-derived or branch-derived)",
	)
	description := flag.String(
		"description", "",
		"Merge request description",
	)
	noPush := flag.Bool(
		"no_push", false,
		"Skip pushing the branch "+
			"(use if already pushed)",
	)
	keepSource := flag.String(
		"keep_source", "",
		"Keep the source branch after merge: "+
			"true or false; empty uses the configured default",
	)
	verbose := flag.Bool(
		"verbose", false,
		"Enable debug logging",
	)

	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if cfg.MR.URL == "" || cfg.MR.Token == "" {
		return fmt.Errorf(
			"%s: gitlab_mr url and token must be configured",
			errCtx,
		)
	}

	ctx := context.Background()
	repo := git.NewRepo("")

	// Resolve the project path, auto-detecting from the
	// origin remote when not configured.
	project := cfg.MR.Project
	if project == "" {
		project, err = repo.ProjectFromRemote(
			ctx, "origin",
		)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		slog.Info(
			"auto-detected project from git remote",
			"project", project,
		)
	}

	host, err := glhost.NewProvider(glhost.Config{
		URL:      cfg.MR.URL,
		Token:    cfg.MR.Token,
		Project:  project,
		Insecure: cfg.MR.Insecure,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// The tracker is optional here: without one, title
	// enrichment is skipped.
	trk, err := tracker.FromConfig(cfg)
	if err != nil {
		slog.Warn(
			"no usable tracker, title enrichment disabled",
			"error", err,
		)

		trk = nil
	}

	gate := &translate.Gate{
		SourceLang: cfg.TranslateSourceLang,
	}
	if cfg.TranslateTitles {
		gate.Translator = google.NewClient()
	}

	// Three-way keep-source: empty flag means "use the
	// configured default".
	var keepSourceFlag *bool

	if *keepSource != "" {
		val := config.ParseBool(*keepSource, false)
		keepSourceFlag = &val
	}

	mr, err := mrer.Run(ctx, mrer.Config{
		Push:              !*noPush,
		Title:             *title,
		Target:            *target,
		Description:       *description,
		KeepSource:        keepSourceFlag,
		KeepSourceDefault: cfg.MR.KeepSource,
		Repo:              repo,
		Tracker:           trk,
		Host:              host,
		Gate:              gate,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	fmt.Printf(
		"Merge request created: !%d - %s\n"+
			"  Source: %s\n"+
			"  Target: %s\n"+
			"  URL: %s\n",
		mr.IID,
		mr.Title,
		mr.SourceBranch,
		mr.TargetBranch,
		mr.WebURL,
	)

	return nil
}
