package github

import (
	"context"
	"fmt"
	"strconv"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/issueops/issue"
)

// Config holds the settings needed to fetch issues from
// a GitHub repository.
type Config struct {
	// Host is an optional GitHub Enterprise hostname
	// (e.g. "git.corp.example.com"). Leave empty for
	// github.com.
	Host string
	// Token is a personal access token.
	Token string
	// Owner is the user or organisation that owns the
	// repository.
	Owner string
	// Repo is the repository name (without owner).
	Repo string
}

// Tracker fetches issues from a GitHub repository.
//
// Pattern: Strategy -- implements tracker.Tracker.
type Tracker struct {
	client *gh.Client
	owner  string
	repo   string
}

// NewTracker validates cfg and returns a Tracker ready
// to fetch issues.
func NewTracker(cfg Config) (*Tracker, error) {
	const errCtx = "creating github tracker"

	if cfg.Token == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf(
			"%s: owner and repo must be set", errCtx,
		)
	}

	client := gh.NewClient(nil).
		WithAuthToken(cfg.Token)

	if cfg.Host != "" {
		baseURL := "https://" +
			cfg.Host + "/api/v3/"
		uploadURL := "https://" +
			cfg.Host + "/api/uploads/"

		var err error

		client, err = client.WithEnterpriseURLs(
			baseURL, uploadURL,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w",
				errCtx, err,
			)
		}
	}

	return &Tracker{
		client: client,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
	}, nil
}

// DisplayName names the tracker in user messages.
func (t *Tracker) DisplayName() string {
	return "GitHub"
}

// NumericIssues reports that GitHub issue identifiers
// are repository-scoped numbers.
func (t *Tracker) NumericIssues() bool {
	return true
}

// GetIssue fetches the issue with the given number.
func (t *Tracker) GetIssue(
	ctx context.Context,
	id string,
) (*issue.Issue, error) {
	const errCtx = "fetching github issue"

	number, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: issue number must be numeric, got %q",
			errCtx, id,
		)
	}

	gi, _, err := t.client.Issues.Get(
		ctx, t.owner, t.repo, number,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s %s: %w", errCtx, id, err,
		)
	}

	iss := issue.New(
		strconv.Itoa(gi.GetNumber()),
		gi.GetTitle(),
		gi.GetAssignee().GetLogin(),
	)

	// GitHub reports pull requests through the issues
	// API as well.
	if gi.IsPullRequest() {
		iss.Type = "pull_request"
	}

	return iss, nil
}
