// Package tracker defines the issue tracker
// collaborator contract and a factory selecting the
// configured implementation.
//
// Pattern: Strategy -- swap issue tracker without
// changing branch or merge request workflows.
package tracker

import (
	"context"
	"fmt"

	"github.com/byte4ever/issueops/config"
	"github.com/byte4ever/issueops/issue"
	"github.com/byte4ever/issueops/tracker/github"
	"github.com/byte4ever/issueops/tracker/gitlab"
	"github.com/byte4ever/issueops/tracker/jira"
)

// Tracker fetches issues from an external tracker.
type Tracker interface {
	// GetIssue returns the issue with the given
	// tracker-native identifier.
	GetIssue(
		ctx context.Context,
		id string,
	) (*issue.Issue, error)

	// DisplayName names the tracker in user messages.
	DisplayName() string

	// NumericIssues reports whether issue identifiers
	// must be numeric for this tracker.
	NumericIssues() bool
}

// FromConfig builds the tracker selected by the
// configuration.
func FromConfig(cfg *config.Config) (Tracker, error) {
	const errCtx = "selecting tracker"

	switch cfg.Tracker {
	case "gitlab":
		trk, err := gitlab.NewTracker(gitlab.Config{
			URL:     cfg.GitLab.URL,
			Token:   cfg.GitLab.Token,
			Project: cfg.GitLab.Project,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return trk, nil
	case "github":
		trk, err := github.NewTracker(github.Config{
			Host:  cfg.GitHub.Host,
			Token: cfg.GitHub.Token,
			Owner: cfg.GitHub.Owner,
			Repo:  cfg.GitHub.Repo,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return trk, nil
	case "jira":
		trk, err := jira.NewTracker(jira.Config{
			URL:      cfg.Jira.URL,
			Username: cfg.Jira.Username,
			Token:    cfg.Jira.Token,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return trk, nil
	case "":
		return nil, fmt.Errorf(
			"%s: no tracker configured", errCtx,
		)
	default:
		return nil, fmt.Errorf(
			"%s: unknown tracker %q",
			errCtx, cfg.Tracker,
		)
	}
}
