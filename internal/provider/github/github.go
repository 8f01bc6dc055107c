package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ewanhart/prnotes/internal/provider"
	"github.com/google/go-github/v60/github"
)

// GitHubProvider implements provider.Provider for GitHub.
type GitHubProvider struct {
	client *github.Client
	token  string
}

// Option configures the GitHub provider.
type Option func(*GitHubProvider)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(p *GitHubProvider) {
		p.client.BaseURL, _ = p.client.BaseURL.Parse(url + "/")
	}
}

// New creates a new GitHub provider.
func New(token string, opts ...Option) *GitHubProvider {
	httpClient := &http.Client{
		Transport: &tokenTransport{token: token},
	}

	p := &GitHubProvider{
		client: github.NewClient(httpClient),
		token:  token,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// tokenTransport adds authorization header to requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return "github"
}

// GetPullRequest fetches a pull request by number.
func (p *GitHubProvider) GetPullRequest(ctx context.Context, owner, repo string, number int) (*provider.PullRequest, error) {
	pr, _, err := p.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request: %w", err)
	}

	return &provider.PullRequest{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
		URL:         pr.GetHTMLURL(),
	}, nil
}

// ListCommits returns the pull request's commits in the order GitHub
// reports them, requesting every page.
func (p *GitHubProvider) ListCommits(ctx context.Context, owner, repo string, number int) ([]provider.Commit, error) {
	opt := &github.ListOptions{PerPage: 100}

	var result []provider.Commit
	for {
		commits, resp, err := p.client.PullRequests.ListCommits(ctx, owner, repo, number, opt)
		if err != nil {
			return nil, fmt.Errorf("listing pull request commits: %w", err)
		}

		for _, c := range commits {
			subject, body, _ := strings.Cut(c.GetCommit().GetMessage(), "\n")
			result = append(result, provider.Commit{
				SHA:     c.GetSHA(),
				Subject: strings.TrimSpace(subject),
				Body:    strings.TrimSpace(body),
				Author:  c.GetCommit().GetAuthor().GetName(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	return result, nil
}

// UpdateDescription publishes a new pull request description.
func (p *GitHubProvider) UpdateDescription(ctx context.Context, owner, repo string, number int, description string) error {
	_, _, err := p.client.PullRequests.Edit(ctx, owner, repo, number, &github.PullRequest{
		Body: &description,
	})
	if err != nil {
		return fmt.Errorf("updating pull request description: %w", err)
	}
	return nil
}
