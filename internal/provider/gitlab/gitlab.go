package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ewanhart/prnotes/internal/provider"
	"github.com/xanzy/go-gitlab"
)

// GitLabProvider implements provider.Provider for GitLab.
type GitLabProvider struct {
	client *gitlab.Client
	token  string
}

// Option configures the GitLab provider.
type Option func(*GitLabProvider)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(baseURL string) Option {
	return func(p *GitLabProvider) {
		p.client, _ = gitlab.NewClient(p.token, gitlab.WithBaseURL(baseURL+"/api/v4"))
	}
}

// New creates a new GitLab provider.
func New(token string, opts ...Option) *GitLabProvider {
	client, _ := gitlab.NewClient(token)
	p := &GitLabProvider{client: client, token: token}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the provider name.
func (p *GitLabProvider) Name() string {
	return "gitlab"
}

// projectPath encodes owner/repo for GitLab API.
func projectPath(owner, repo string) string {
	return url.PathEscape(owner + "/" + repo)
}

// GetPullRequest fetches a merge request by IID.
func (p *GitLabProvider) GetPullRequest(ctx context.Context, owner, repo string, number int) (*provider.PullRequest, error) {
	mr, _, err := p.client.MergeRequests.GetMergeRequest(projectPath(owner, repo), number, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching merge request: %w", err)
	}

	return &provider.PullRequest{
		Number:      mr.IID,
		Title:       mr.Title,
		Description: mr.Description,
		URL:         mr.WebURL,
	}, nil
}

// ListCommits returns the merge request's commits in the order GitLab
// reports them, requesting every page.
func (p *GitLabProvider) ListCommits(ctx context.Context, owner, repo string, number int) ([]provider.Commit, error) {
	opt := &gitlab.GetMergeRequestCommitsOptions{PerPage: 100}

	var result []provider.Commit
	for {
		commits, resp, err := p.client.MergeRequests.GetMergeRequestCommits(projectPath(owner, repo), number, opt)
		if err != nil {
			return nil, fmt.Errorf("listing merge request commits: %w", err)
		}

		for _, c := range commits {
			subject, body, _ := strings.Cut(c.Message, "\n")
			result = append(result, provider.Commit{
				SHA:     c.ID,
				Subject: strings.TrimSpace(subject),
				Body:    strings.TrimSpace(body),
				Author:  c.AuthorName,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return result, nil
}

// UpdateDescription publishes a new merge request description.
func (p *GitLabProvider) UpdateDescription(ctx context.Context, owner, repo string, number int, description string) error {
	_, _, err := p.client.MergeRequests.UpdateMergeRequest(projectPath(owner, repo), number, &gitlab.UpdateMergeRequestOptions{
		Description: &description,
	})
	if err != nil {
		return fmt.Errorf("updating merge request description: %w", err)
	}
	return nil
}
