package jira

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/issueops/issue"
)

// Config holds the settings needed to fetch issues from
// a Jira instance.
type Config struct {
	// URL is the base URL of the Jira instance
	// (e.g. "https://example.atlassian.net").
	URL string
	// Username is the account the token belongs to.
	// When empty the token is sent as a bearer token
	// instead of basic auth.
	Username string
	// Token is an API token or personal access token.
	Token string
}

// Tracker fetches issues from Jira over the REST v2
// API.
//
// Pattern: Strategy -- implements tracker.Tracker.
type Tracker struct {
	baseURL    string
	username   string
	token      string
	httpClient *http.Client
}

// Response shapes for GET /rest/api/2/issue/{key}.
type jiraIssue struct {
	Key    string     `json:"key"`
	Fields jiraFields `json:"fields"`
}

type jiraFields struct {
	Summary   string    `json:"summary"`
	Assignee  *jiraUser `json:"assignee"`
	IssueType jiraType  `json:"issuetype"`
}

type jiraUser struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type jiraType struct {
	Name string `json:"name"`
}

// NewTracker validates cfg and returns a Tracker ready
// to fetch issues.
func NewTracker(cfg Config) (*Tracker, error) {
	const errCtx = "creating jira tracker"

	if cfg.URL == "" {
		return nil, fmt.Errorf(
			"%s: url must be set", errCtx,
		)
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf(
			"%s: token must be set", errCtx,
		)
	}

	return &Tracker{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		token:    cfg.Token,
	}, nil
}

// DisplayName names the tracker in user messages.
func (t *Tracker) DisplayName() string {
	return "Jira"
}

// NumericIssues reports that Jira identifiers are
// alphanumeric keys such as "PROJ-123".
func (t *Tracker) NumericIssues() bool {
	return false
}

// GetIssue fetches the issue with the given key.
func (t *Tracker) GetIssue(
	ctx context.Context,
	id string,
) (*issue.Issue, error) {
	const errCtx = "fetching jira issue"

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		t.baseURL+"/rest/api/2/issue/"+id,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if t.username != "" {
		req.SetBasicAuth(t.username, t.token)
	} else {
		req.Header.Set(
			"Authorization", "Bearer "+t.token,
		)
	}

	resp, err := t.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf(
			"%s %s: %w", errCtx, id, err,
		)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(
			io.LimitReader(resp.Body, 512),
		)

		return nil, fmt.Errorf(
			"%s %s: status %s: %s",
			errCtx, id, resp.Status,
			strings.TrimSpace(string(body)),
		)
	}

	var ji jiraIssue

	err = json.NewDecoder(resp.Body).Decode(&ji)
	if err != nil {
		return nil, fmt.Errorf(
			"%s %s: decoding response: %w",
			errCtx, id, err,
		)
	}

	assignee := ""
	if ji.Fields.Assignee != nil {
		assignee = ji.Fields.Assignee.Name
		if assignee == "" {
			assignee = ji.Fields.Assignee.DisplayName
		}
	}

	iss := issue.New(ji.Key, ji.Fields.Summary, assignee)

	if ji.Fields.IssueType.Name != "" {
		iss.Type = strings.ToLower(
			ji.Fields.IssueType.Name,
		)
	}

	return iss, nil
}

func (t *Tracker) client() *http.Client {
	if t.httpClient == nil {
		return http.DefaultClient
	}

	return t.httpClient
}
