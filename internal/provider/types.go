package provider

// Commit is a raw commit message. Subject and Body are what the classifier
// consumes; SHA and Author are opaque passthrough metadata.
type Commit struct {
	SHA     string
	Subject string
	Body    string
	Author  string
}

// PullRequest holds the pull request fields the updater needs.
type PullRequest struct {
	Number      int
	Title       string
	Description string
	URL         string
}
