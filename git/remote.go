package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnrecognizedRemote is returned when a remote URL
// matches none of the known shapes. This is a
// configuration problem, not retryable.
var ErrUnrecognizedRemote = errors.New(
	"unrecognized remote URL",
)

// Remote URL shapes, tried in order. First match wins.
var (
	// SSH shorthand: git@host:group/project
	sshPattern = regexp.MustCompile(`^git@[^:]+:(.+)$`)

	// HTTP(S): https://host/group/project
	httpPattern = regexp.MustCompile(`^https?://[^/]+/(.+)$`)

	// SSH with protocol and optional port:
	// ssh://user@host:port/group/project
	sshProtocolPattern = regexp.MustCompile(`^ssh://[^@]+@[^/]+/(.+)$`)
)

// ProjectFromURL extracts the hosting project path (e.g.
// "group/project") from a git remote URL. A trailing
// slash and ".git" suffix are stripped before matching.
func ProjectFromURL(remoteURL string) (string, error) {
	const errCtx = "resolving project from remote"

	trimmed := strings.TrimRight(remoteURL, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	patterns := []*regexp.Regexp{
		sshPattern,
		httpPattern,
		sshProtocolPattern,
	}

	for _, pat := range patterns {
		if m := pat.FindStringSubmatch(trimmed); m != nil {
			return m[1], nil
		}
	}

	return "", fmt.Errorf(
		"%s: %w: %q",
		errCtx, ErrUnrecognizedRemote, remoteURL,
	)
}

// ProjectFromRemote reads the URL of the named remote
// and resolves its project path.
func (r *Repo) ProjectFromRemote(
	ctx context.Context,
	name string,
) (string, error) {
	const errCtx = "resolving project from remote"

	remoteURL, err := r.RemoteURL(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return ProjectFromURL(remoteURL)
}
