package event

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewanhart/prnotes/internal/webhook"
)

// gitHubPayload represents the GitHub pull_request webhook payload fields
// we care about.
type gitHubPayload struct {
	Action     string `json:"action"`
	Number     int    `json:"number"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// NormalizeGitHubEvent converts a GitHub webhook event to a normalized Event.
func NormalizeGitHubEvent(ghEvent *webhook.GitHubEvent) (*Event, error) {
	if ghEvent.EventType != "pull_request" {
		return nil, fmt.Errorf("unhandled event type: %s", ghEvent.EventType)
	}

	var payload gitHubPayload
	if err := json.Unmarshal(ghEvent.RawPayload, &payload); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}

	// Parse owner/repo from full_name
	parts := strings.SplitN(payload.Repository.FullName, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid repository full_name: %s", payload.Repository.FullName)
	}

	event := &Event{
		Provider: "github",
		Owner:    parts[0],
		Repo:     parts[1],
		Number:   payload.Number,
	}

	switch payload.Action {
	case "opened":
		event.Action = ActionOpened
	case "synchronize":
		event.Action = ActionUpdated
	default:
		return nil, fmt.Errorf("unhandled pull_request action: %s", payload.Action)
	}

	return event, nil
}
