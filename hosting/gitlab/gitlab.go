package gitlab

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/issueops/hosting"
)

// Config holds the settings needed to create a GitLab
// merge request provider.
type Config struct {
	// URL is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	URL string
	// Token is a personal or project access token.
	Token string
	// Project is the full project path
	// (e.g. "group/project").
	Project string
	// Insecure skips TLS certificate verification.
	Insecure bool
}

// Provider creates merge requests on GitLab.
//
// Pattern: Strategy -- implements hosting.Provider.
type Provider struct {
	client  *gl.Client
	project string
}

// NewProvider validates cfg and returns a Provider
// ready to create merge requests.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating gitlab merge request provider"

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

	opts := []gl.ClientOptionFunc{
		gl.WithBaseURL(host),
	}

	if cfg.Insecure {
		slog.Debug(
			"TLS verification disabled for gitlab connection",
			"host", host,
		)

		insecureClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					//nolint:gosec // explicit insecure mode
					InsecureSkipVerify: true,
				},
			},
		}

		opts = append(
			opts, gl.WithHTTPClient(insecureClient),
		)
	}

	client, err := gl.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Provider{
		client:  client,
		project: cfg.Project,
	}, nil
}

// CreateMergeRequest creates a merge request. An empty
// target branch resolves to the project's default
// branch, and an empty title falls back to a prettified
// form of the source branch name.
func (p *Provider) CreateMergeRequest(
	ctx context.Context,
	opts hosting.CreateOptions,
) (*hosting.MergeRequest, error) {
	const errCtx = "creating gitlab merge request"

	target := opts.TargetBranch
	if target == "" {
		var err error

		target, err = p.defaultBranch(ctx)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		slog.Debug(
			"using project default target branch",
			"branch", target,
		)
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle(opts.SourceBranch)

		slog.Debug(
			"using branch-derived title",
			"title", title,
		)
	}

	created, _, err := p.client.MergeRequests.CreateMergeRequest(
		p.project,
		&gl.CreateMergeRequestOptions{
			Title:              gl.Ptr(title),
			Description:        gl.Ptr(opts.Description),
			SourceBranch:       gl.Ptr(opts.SourceBranch),
			TargetBranch:       gl.Ptr(target),
			RemoveSourceBranch: gl.Ptr(opts.RemoveSourceBranch),
		},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &hosting.MergeRequest{
		IID:          int(created.IID),
		Title:        created.Title,
		WebURL:       created.WebURL,
		SourceBranch: created.SourceBranch,
		TargetBranch: created.TargetBranch,
	}, nil
}

// defaultBranch fetches the project's configured default
// branch.
func (p *Provider) defaultBranch(
	ctx context.Context,
) (string, error) {
	const errCtx = "fetching project default branch"

	proj, _, err := p.client.Projects.GetProject(
		p.project,
		&gl.GetProjectOptions{},
		gl.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return proj.DefaultBranch, nil
}

// DefaultTitle prettifies a branch name into a human
// readable title: hyphens and underscores become spaces
// and each word is capitalized.
func DefaultTitle(branch string) string {
	replaced := strings.NewReplacer(
		"-", " ",
		"_", " ",
	).Replace(branch)

	words := strings.Fields(replaced)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}
