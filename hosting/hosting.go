// Package hosting defines the merge request collaborator
// contract for git hosting platforms.
//
// Pattern: Strategy -- swap hosting platform without
// changing the merge request orchestration.
package hosting

import "context"

// MergeRequest describes a created merge request. It is
// output-only: the orchestrator re-presents these values
// to the user verbatim.
type MergeRequest struct {
	// IID is the project-scoped merge request number.
	IID int
	// Title is the final title the platform stored.
	Title string
	// WebURL points at the merge request page.
	WebURL string
	// SourceBranch is the branch being merged.
	SourceBranch string
	// TargetBranch is the branch merged into.
	TargetBranch string
}

// CreateOptions are the inputs to a merge request
// creation call.
type CreateOptions struct {
	// SourceBranch is the branch to merge. Required.
	SourceBranch string

	// TargetBranch is the branch to merge into. Empty
	// means the project's default branch.
	TargetBranch string

	// Title is the merge request title. Empty means the
	// provider derives one from the source branch.
	Title string

	// Description is the merge request body.
	Description string

	// RemoveSourceBranch deletes the source branch when
	// the merge request is merged.
	RemoveSourceBranch bool
}

// Provider creates merge requests on a git hosting
// platform.
type Provider interface {
	CreateMergeRequest(
		ctx context.Context,
		opts CreateOptions,
	) (*MergeRequest, error)
}
