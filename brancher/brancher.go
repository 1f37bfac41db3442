// Package brancher orchestrates the "create branch from
// issue" workflow: fetch the issue from the tracker,
// derive a branch name from the configured template, and
// create the branch locally, optionally pushing it.
package brancher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/byte4ever/issueops/branch"
	"github.com/byte4ever/issueops/tracker"
	"github.com/byte4ever/issueops/translate"
)

// GitRepo is the local git surface the workflow needs.
type GitRepo interface {
	CreateBranch(ctx context.Context, name string) error
	Push(ctx context.Context) (string, string, error)
}

// Config holds all settings for a branch creation run.
type Config struct {
	// IssueID is the tracker-native issue identifier as
	// typed by the user.
	IssueID string

	// Template is the branch name format string.
	Template string

	// TranslateTitles enables title translation before
	// slugification.
	TranslateTitles bool

	// AutoPush pushes the new branch after creation.
	AutoPush bool

	// Tracker fetches the issue. Required.
	Tracker tracker.Tracker

	// Repo is the local git collaborator. Required.
	Repo GitRepo

	// Gate performs best-effort title translation.
	Gate *translate.Gate
}

// Run executes the branch creation workflow and returns
// the created branch name.
func Run(ctx context.Context, cfg Config) (string, error) {
	const errCtx = "creating issue branch"

	// Step 1: preconditions that need no collaborator.
	if cfg.Tracker.NumericIssues() &&
		!isDigits(cfg.IssueID) {
		return "", fmt.Errorf(
			"%s: issue id must be numeric for %s, got %q",
			errCtx,
			cfg.Tracker.DisplayName(),
			cfg.IssueID,
		)
	}

	// Step 2: fetch the issue. This is the primary
	// path, so failure is fatal.
	iss, err := cfg.Tracker.GetIssue(ctx, cfg.IssueID)
	if err != nil {
		return "", fmt.Errorf(
			"%s: fetch issue %s: %w",
			errCtx, cfg.IssueID, err,
		)
	}

	iss.Translate = cfg.TranslateTitles

	// Step 3: assignee precondition, checked before any
	// git side effect.
	//
	// TODO offer to assign the issue to the current
	// user instead of bailing out.
	gen := branch.Generator{Template: cfg.Template}
	if gen.RequiresAssignee() && iss.Assignee == "" {
		return "", fmt.Errorf(
			"%s: issue %s has no assignee and the branch format requires one",
			errCtx, iss.ID,
		)
	}

	slog.Info(
		"generating branch name",
		"issue", iss.ID,
		"title", iss.Title,
	)

	name, err := gen.Generate(ctx, iss, cfg.Gate)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 4: git side effects.
	if err := cfg.Repo.CreateBranch(ctx, name); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info("created branch", "branch", name)

	if cfg.AutoPush {
		if _, _, err := cfg.Repo.Push(ctx); err != nil {
			return "", fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	return name, nil
}

// isDigits reports whether s is a non-empty string of
// ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
