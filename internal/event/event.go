package event

import "fmt"

// Action describes what happened to the pull request.
type Action string

const (
	ActionOpened  Action = "opened"
	ActionUpdated Action = "updated"
)

// Event is a normalized pull request event from any provider.
type Event struct {
	// Provider is the git provider (github, gitlab).
	Provider string

	// Action is the normalized event action.
	Action Action

	// Repository information.
	Owner string
	Repo  string

	// Number is the PR number (GitHub) or MR IID (GitLab).
	Number int
}

// Key returns a unique key for this event.
func (e *Event) Key() string {
	return e.Provider + "/" + e.Owner + "/" + e.Repo + "/" + fmt.Sprint(e.Number)
}
