package provider

import "context"

// CommitSource supplies the ordered commits of a pull request.
type CommitSource interface {
	// ListCommits returns the pull request's commits in the provider's
	// reported order.
	ListCommits(ctx context.Context, owner, repo string, number int) ([]Commit, error)
}

// DescriptionStore reads and publishes pull request descriptions.
type DescriptionStore interface {
	// GetPullRequest fetches a pull request by number.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)

	// UpdateDescription publishes a new description for the pull request.
	UpdateDescription(ctx context.Context, owner, repo string, number int, description string) error
}

// Provider is a git hosting provider able to act as both commit source
// and description store.
type Provider interface {
	// Name returns the provider name (github, gitlab).
	Name() string

	CommitSource
	DescriptionStore
}
