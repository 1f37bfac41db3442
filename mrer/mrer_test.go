package mrer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/issueops/git"
	"github.com/byte4ever/issueops/hosting"
	"github.com/byte4ever/issueops/issue"
	"github.com/byte4ever/issueops/mrer"
	"github.com/byte4ever/issueops/translate"
)

// fakeRepo serves a fixed branch name and records
// whether a push happened.
type fakeRepo struct {
	branch  string
	err     error
	pushed  int
	current int
}

func (f *fakeRepo) CurrentBranch(
	_ context.Context,
) (string, error) {
	f.current++

	if f.err != nil {
		return "", f.err
	}

	return f.branch, nil
}

func (f *fakeRepo) Push(
	_ context.Context,
) (string, string, error) {
	f.pushed++

	if f.err != nil {
		return "", "", f.err
	}

	return f.branch, "origin", nil
}

// fakeTracker serves a single canned issue.
type fakeTracker struct {
	iss   *issue.Issue
	err   error
	calls int
}

func (f *fakeTracker) GetIssue(
	_ context.Context,
	_ string,
) (*issue.Issue, error) {
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	return f.iss, nil
}

func (f *fakeTracker) DisplayName() string {
	return "FakeTracker"
}

func (f *fakeTracker) NumericIssues() bool {
	return false
}

// fakeHost records the creation call and returns a
// canned descriptor.
type fakeHost struct {
	opts *hosting.CreateOptions
	err  error
}

func (f *fakeHost) CreateMergeRequest(
	_ context.Context,
	opts hosting.CreateOptions,
) (*hosting.MergeRequest, error) {
	f.opts = &opts

	if f.err != nil {
		return nil, f.err
	}

	title := opts.Title
	if title == "" {
		title = "Hosting Default"
	}

	return &hosting.MergeRequest{
		IID:          7,
		Title:        title,
		WebURL:       "https://gitlab.example.com/mr/7",
		SourceBranch: opts.SourceBranch,
		TargetBranch: opts.TargetBranch,
	}, nil
}

type fixedTranslator struct {
	result string
}

func (f fixedTranslator) Translate(
	_ context.Context,
	_ string,
	_ string,
) (string, error) {
	return f.result, nil
}

func TestExtractIssueKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		branch string
		want   string
	}{
		{
			name:   "key prefix",
			branch: "NPDEVOPS-1929-fix-bug",
			want:   "NPDEVOPS-1929",
		},
		{
			name:   "key in the middle",
			branch: "prefix/PROJ-456/description",
			want:   "PROJ-456",
		},
		{
			name:   "underscore in project code",
			branch: "MY_PROJ-1-thing",
			want:   "MY_PROJ-1",
		},
		{
			name:   "first match wins",
			branch: "AAA-1-then-BBB-2",
			want:   "AAA-1",
		},
		{
			name:   "no key",
			branch: "no-issue-here",
			want:   "",
		},
		{
			name:   "lowercase is not a key",
			branch: "proj-123-fix",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := mrer.ExtractIssueKey(tt.branch)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_pushes_and_creates(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{branch: "no-issue-here"}
	host := &fakeHost{}

	mr, err := mrer.Run(t.Context(), mrer.Config{
		Push:   true,
		Target: "main",
		Repo:   repo,
		Host:   host,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.pushed)
	assert.Equal(t, "no-issue-here", mr.SourceBranch)
	assert.Equal(t, "main", host.opts.TargetBranch)

	// Without an issue key the title stays empty for
	// the hosting default.
	assert.Empty(t, host.opts.Title)
}

func TestRun_no_push_uses_current_branch(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{branch: "fix-typo"}
	host := &fakeHost{}

	_, err := mrer.Run(t.Context(), mrer.Config{
		Push: false,
		Repo: repo,
		Host: host,
	})

	require.NoError(t, err)
	assert.Zero(t, repo.pushed)
	assert.Equal(t, 1, repo.current)
	assert.Equal(t, "fix-typo", host.opts.SourceBranch)
}

func TestRun_detached_head_is_fatal(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{err: git.ErrDetachedHead}
	host := &fakeHost{}

	_, err := mrer.Run(t.Context(), mrer.Config{
		Repo: repo,
		Host: host,
	})

	assert.ErrorIs(t, err, git.ErrDetachedHead)
	assert.Nil(t, host.opts)
}

func TestRun_enriched_title(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{branch: "NPDEVOPS-1929-fix-bug"}
	host := &fakeHost{}
	trk := &fakeTracker{
		iss: issue.New(
			"NPDEVOPS-1929",
			"Исправить баг в логине",
			"jdoe",
		),
	}

	mr, err := mrer.Run(t.Context(), mrer.Config{
		Repo:    repo,
		Tracker: trk,
		Host:    host,
		Gate: &translate.Gate{
			Translator: fixedTranslator{
				result: "Fix login bug",
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(
		t,
		"NPDEVOPS-1929: Fix login bug",
		host.opts.Title,
	)
	assert.Equal(
		t, "NPDEVOPS-1929: Fix login bug", mr.Title,
	)
}

func TestRun_explicit_title_wins(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{branch: "NPDEVOPS-1929-fix-bug"}
	host := &fakeHost{}
	trk := &fakeTracker{
		iss: issue.New("NPDEVOPS-1929", "anything", ""),
	}

	_, err := mrer.Run(t.Context(), mrer.Config{
		Title:   "My own title",
		Repo:    repo,
		Tracker: trk,
		Host:    host,
	})

	require.NoError(t, err)
	assert.Equal(t, "My own title", host.opts.Title)

	// The tracker is never consulted when the title is
	// explicit.
	assert.Zero(t, trk.calls)
}

func TestRun_tracker_failure_degrades(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{branch: "PROJ-456-fix"}
	host := &fakeHost{}
	trk := &fakeTracker{
		err: errors.New("tracker down"),
	}

	mr, err := mrer.Run(t.Context(), mrer.Config{
		Repo:    repo,
		Tracker: trk,
		Host:    host,
	})

	// Enrichment failure never aborts the workflow.
	require.NoError(t, err)
	assert.Empty(t, host.opts.Title)
	assert.Equal(t, "Hosting Default", mr.Title)
}

func TestRun_nil_tracker_skips_enrichment(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{branch: "PROJ-456-fix"}
	host := &fakeHost{}

	_, err := mrer.Run(t.Context(), mrer.Config{
		Repo: repo,
		Host: host,
	})

	require.NoError(t, err)
	assert.Empty(t, host.opts.Title)
}

func TestRun_keep_source_precedence(t *testing.T) {
	t.Parallel()

	keep := true
	remove := false

	tests := []struct {
		name        string
		flag        *bool
		def         bool
		wantRemoval bool
	}{
		{
			name:        "flag keep wins over config",
			flag:        &keep,
			def:         false,
			wantRemoval: false,
		},
		{
			name:        "flag remove wins over config",
			flag:        &remove,
			def:         true,
			wantRemoval: true,
		},
		{
			name:        "unset flag uses config keep",
			flag:        nil,
			def:         true,
			wantRemoval: false,
		},
		{
			name:        "unset flag uses config remove",
			flag:        nil,
			def:         false,
			wantRemoval: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &fakeRepo{branch: "fix"}
			host := &fakeHost{}

			_, err := mrer.Run(
				t.Context(),
				mrer.Config{
					KeepSource:        tt.flag,
					KeepSourceDefault: tt.def,
					Repo:              repo,
					Host:              host,
				},
			)

			require.NoError(t, err)
			assert.Equal(
				t,
				tt.wantRemoval,
				host.opts.RemoveSourceBranch,
			)
		})
	}
}

func TestResolveTitle_sources(t *testing.T) {
	t.Parallel()

	trk := &fakeTracker{
		iss: issue.New("PROJ-9", "Speed up CI", ""),
	}

	explicit := mrer.ResolveTitleForTest(
		t.Context(),
		mrer.Config{Title: "hand written", Tracker: trk},
		"PROJ-9-speed-up-ci",
	)
	assert.Equal(
		t,
		mrer.TitleResolution{
			Title:  "hand written",
			Source: mrer.TitleExplicit,
		},
		explicit,
	)

	enriched := mrer.ResolveTitleForTest(
		t.Context(),
		mrer.Config{Tracker: trk},
		"PROJ-9-speed-up-ci",
	)
	assert.Equal(
		t, mrer.TitleEnriched, enriched.Source,
	)
	assert.Equal(
		t, "PROJ-9: Speed up CI", enriched.Title,
	)

	fallback := mrer.ResolveTitleForTest(
		t.Context(),
		mrer.Config{Tracker: trk},
		"no-key-at-all",
	)
	assert.Equal(
		t,
		mrer.TitleResolution{Source: mrer.TitleFallback},
		fallback,
	)
	assert.Equal(t, 1, trk.calls)
}

func TestRun_hosting_failure_is_fatal(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{branch: "fix"}
	host := &fakeHost{err: errors.New("401 unauthorized")}

	_, err := mrer.Run(t.Context(), mrer.Config{
		Repo: repo,
		Host: host,
	})

	assert.ErrorContains(t, err, "401 unauthorized")
}
