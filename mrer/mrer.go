// Package mrer orchestrates merge request creation for
// the current branch: source branch acquisition, issue
// key recovery, best-effort title enrichment, and the
// hosting API call.
package mrer

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/byte4ever/issueops/hosting"
	"github.com/byte4ever/issueops/tracker"
	"github.com/byte4ever/issueops/translate"
)

// issueKeyPattern matches tracker-style issue keys such
// as "PROJ-123" anywhere in a branch name.
var issueKeyPattern = regexp.MustCompile(
	`[A-Z][A-Z0-9_]*-\d+`,
)

// ExtractIssueKey returns the first tracker-style issue
// key found in the branch name, or the empty string when
// there is none. No match is not an error: title
// enrichment is simply skipped.
func ExtractIssueKey(branchName string) string {
	return issueKeyPattern.FindString(branchName)
}

// GitRepo is the local git surface the workflow needs.
type GitRepo interface {
	CurrentBranch(ctx context.Context) (string, error)
	Push(ctx context.Context) (string, string, error)
}

// TitleSource says how the merge request title was
// resolved.
type TitleSource int

const (
	// TitleExplicit means the user supplied the title.
	TitleExplicit TitleSource = iota
	// TitleEnriched means the title was composed from
	// the tracker issue.
	TitleEnriched
	// TitleFallback means no title was resolved and the
	// hosting provider applies its own default.
	TitleFallback
)

// TitleResolution is the outcome of the title
// enrichment step. Enrichment never fails: a degraded
// outcome is reported as TitleFallback with an empty
// title.
type TitleResolution struct {
	Title  string
	Source TitleSource
}

// Config holds all settings and collaborators for a
// merge request creation run.
type Config struct {
	// Push pushes the current branch before creating
	// the merge request.
	Push bool

	// Title is the explicit merge request title. Empty
	// enables auto-generation from the tracker issue.
	Title string

	// Target is the target branch. Empty lets the
	// hosting provider use the project default.
	Target string

	// Description is the merge request body.
	Description string

	// KeepSource is the three-way CLI flag: nil falls
	// back to KeepSourceDefault.
	KeepSource *bool

	// KeepSourceDefault is the per-project default for
	// keeping the source branch after merge.
	KeepSourceDefault bool

	// Repo is the local git collaborator. Required.
	Repo GitRepo

	// Tracker enriches the title. May be nil when no
	// tracker is configured; enrichment is skipped.
	Tracker tracker.Tracker

	// Host creates the merge request. Required.
	Host hosting.Provider

	// Gate performs best-effort title translation.
	Gate *translate.Gate
}

// Run executes the merge request workflow and returns
// the descriptor of the created merge request.
func Run(
	ctx context.Context,
	cfg Config,
) (*hosting.MergeRequest, error) {
	const errCtx = "creating merge request"

	// Step 1: source branch acquisition. When pushing,
	// the push result is the authoritative name.
	var branchName string

	if cfg.Push {
		slog.Info("pushing current branch")

		name, _, err := cfg.Repo.Push(ctx)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		branchName = name
	} else {
		name, err := cfg.Repo.CurrentBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		slog.Info(
			"using current branch", "branch", name,
		)

		branchName = name
	}

	// Steps 2-3: best-effort title enrichment. Any
	// failure here degrades to the hosting default, it
	// never aborts the workflow.
	res := resolveTitle(ctx, cfg, branchName)

	// Step 4: remove-source precedence is CLI flag,
	// then per-project config, then remove.
	keepSource := cfg.KeepSourceDefault
	if cfg.KeepSource != nil {
		keepSource = *cfg.KeepSource
	}

	// Step 5: the creation call. Failure is fatal and
	// reported with the underlying cause.
	mr, err := cfg.Host.CreateMergeRequest(
		ctx,
		hosting.CreateOptions{
			SourceBranch:       branchName,
			TargetBranch:       cfg.Target,
			Title:              res.Title,
			Description:        cfg.Description,
			RemoveSourceBranch: !keepSource,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return mr, nil
}

// resolveTitle applies the title precedence: an explicit
// title wins outright, then a tracker-enriched
// "{issue-id}: {translated-title}", then fallback to the
// hosting default. Tracker failures are swallowed with a
// warning.
func resolveTitle(
	ctx context.Context,
	cfg Config,
	branchName string,
) TitleResolution {
	if cfg.Title != "" {
		return TitleResolution{
			Title:  cfg.Title,
			Source: TitleExplicit,
		}
	}

	key := ExtractIssueKey(branchName)
	if key == "" {
		slog.Debug(
			"no issue key in branch name",
			"branch", branchName,
		)

		return TitleResolution{Source: TitleFallback}
	}

	if cfg.Tracker == nil {
		slog.Warn(
			"issue key found but no tracker configured",
			"key", key,
		)

		return TitleResolution{Source: TitleFallback}
	}

	iss, err := cfg.Tracker.GetIssue(ctx, key)
	if err != nil {
		slog.Warn(
			"could not fetch issue, using hosting default title",
			"key", key,
			"error", err,
		)

		return TitleResolution{Source: TitleFallback}
	}

	title := fmt.Sprintf(
		"%s: %s",
		iss.ID,
		cfg.Gate.AutoTranslateIfNeeded(ctx, iss.Title),
	)

	slog.Info(
		"auto-generated merge request title",
		"title", title,
	)

	return TitleResolution{
		Title:  title,
		Source: TitleEnriched,
	}
}
