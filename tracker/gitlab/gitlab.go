package gitlab

import (
	"context"
	"fmt"
	"strconv"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/issueops/issue"
)

// Config holds the settings needed to fetch issues from
// a GitLab project.
type Config struct {
	// URL is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	URL string
	// Token is a personal or project access token.
	Token string
	// Project is the full project path
	// (e.g. "group/project").
	Project string
}

// Tracker fetches issues from a GitLab project.
//
// Pattern: Strategy -- implements tracker.Tracker.
type Tracker struct {
	client  *gl.Client
	project string
}

// NewTracker validates cfg and returns a Tracker ready
// to fetch issues.
func NewTracker(cfg Config) (*Tracker, error) {
	const errCtx = "creating gitlab tracker"

	if cfg.Token == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	if cfg.Project == "" {
		return nil, fmt.Errorf(
			"%s: project must be set", errCtx,
		)
	}

	host := cfg.URL
	if host == "" {
		host = "https://gitlab.com"
	}

	client, err := gl.NewClient(
		cfg.Token,
		gl.WithBaseURL(host),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Tracker{
		client:  client,
		project: cfg.Project,
	}, nil
}

// DisplayName names the tracker in user messages.
func (t *Tracker) DisplayName() string {
	return "GitLab"
}

// NumericIssues reports that GitLab issue identifiers
// are project-scoped numbers.
func (t *Tracker) NumericIssues() bool {
	return true
}

// GetIssue fetches the issue with the given IID.
func (t *Tracker) GetIssue(
	ctx context.Context,
	id string,
) (*issue.Issue, error) {
	const errCtx = "fetching gitlab issue"

	iid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: issue id must be numeric, got %q",
			errCtx, id,
		)
	}

	gi, _, err := t.client.Issues.GetIssue(
		t.project, iid, gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s %s: %w", errCtx, id, err,
		)
	}

	assignee := ""
	if gi.Assignee != nil {
		assignee = gi.Assignee.Username
	}

	iss := issue.New(
		fmt.Sprintf("%d", gi.IID),
		gi.Title,
		assignee,
	)

	if gi.IssueType != nil && *gi.IssueType != "" {
		iss.Type = *gi.IssueType
	}

	return iss, nil
}
