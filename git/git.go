// Package git wraps the local git binary with the small
// command surface the workflows need, and resolves
// hosting project paths from remote URLs.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrDetachedHead is returned when the working tree has
// no branch checked out.
var ErrDetachedHead = errors.New(
	"HEAD is detached, check out a branch first",
)

// Runner executes a command in dir and returns its
// combined stdout+stderr output. Swappable in tests.
type Runner func(
	ctx context.Context,
	dir string,
	name string,
	arg ...string,
) (string, error)

// Run is the default Runner, executing real commands.
// Pass empty dir to use the current working directory.
func Run(
	ctx context.Context,
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Debug(
		"executing",
		"cmd", name,
		"args", strings.Join(arg, " "),
	)

	cmd := exec.CommandContext(ctx, name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	by, err := cmd.CombinedOutput()

	slog.Debug("output", "result", string(by))

	if err != nil {
		return string(by), fmt.Errorf(
			"%s: %s %s: %w",
			errCtx, name, strings.Join(arg, " "), err,
		)
	}

	return string(by), nil
}

// Repo is a handle on a local working tree.
type Repo struct {
	// Dir is the working tree location; empty means
	// the current directory.
	Dir string

	// Remote is the upstream remote name.
	Remote string

	// Run executes git commands; nil falls back to the
	// real Runner.
	Run Runner
}

// NewRepo returns a Repo rooted at dir using the origin
// remote.
func NewRepo(dir string) *Repo {
	return &Repo{
		Dir:    dir,
		Remote: "origin",
	}
}

// CurrentBranch returns the name of the checked-out
// branch, or ErrDetachedHead when there is none.
func (r *Repo) CurrentBranch(
	ctx context.Context,
) (string, error) {
	const errCtx = "reading current branch"

	out, err := r.runner()(
		ctx, r.Dir,
		"git", "rev-parse", "--abbrev-ref", "HEAD",
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	name := strings.TrimSpace(out)

	// rev-parse prints the literal "HEAD" when the
	// working tree is detached.
	if name == "HEAD" {
		return "", fmt.Errorf(
			"%s: %w", errCtx, ErrDetachedHead,
		)
	}

	return name, nil
}

// Push pushes the current branch to the remote, setting
// the upstream, and returns the now-authoritative branch
// and remote names.
func (r *Repo) Push(
	ctx context.Context,
) (string, string, error) {
	const errCtx = "pushing branch"

	name, err := r.CurrentBranch(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", errCtx, err)
	}

	_, err = r.runner()(
		ctx, r.Dir,
		"git", "push", "--set-upstream",
		r.remote(), name+":"+name,
	)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"pushed branch",
		"branch", name,
		"remote", r.remote(),
	)

	return name, r.remote(), nil
}

// RemoteURL returns the fetch URL of the named remote.
func (r *Repo) RemoteURL(
	ctx context.Context,
	name string,
) (string, error) {
	const errCtx = "reading remote url"

	out, err := r.runner()(
		ctx, r.Dir,
		"git", "remote", "get-url", name,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return strings.TrimSpace(out), nil
}

// CreateBranch creates and checks out a new branch.
func (r *Repo) CreateBranch(
	ctx context.Context,
	name string,
) error {
	const errCtx = "creating branch"

	_, err := r.runner()(
		ctx, r.Dir, "git", "checkout", "-b", name,
	)
	if err != nil {
		return fmt.Errorf(
			"%s %q: %w", errCtx, name, err,
		)
	}

	return nil
}

// BranchExists reports whether a local branch with the
// given name exists.
func (r *Repo) BranchExists(
	ctx context.Context,
	name string,
) bool {
	_, err := r.runner()(
		ctx, r.Dir,
		"git", "rev-parse", "--verify", "--quiet",
		"refs/heads/"+name,
	)

	return err == nil
}

func (r *Repo) runner() Runner {
	if r.Run == nil {
		return Run
	}

	return r.Run
}

func (r *Repo) remote() string {
	if r.Remote == "" {
		return "origin"
	}

	return r.Remote
}
