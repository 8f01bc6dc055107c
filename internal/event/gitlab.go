package event

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewanhart/prnotes/internal/webhook"
)

// gitLabPayload represents the GitLab merge request webhook payload fields
// we care about.
type gitLabPayload struct {
	ObjectKind string `json:"object_kind"`
	Project    struct {
		PathWithNamespace string `json:"path_with_namespace"`
	} `json:"project"`
	ObjectAttributes struct {
		IID    int    `json:"iid"`
		Action string `json:"action"`
	} `json:"object_attributes"`
}

// NormalizeGitLabEvent converts a GitLab webhook event to a normalized Event.
func NormalizeGitLabEvent(glEvent *webhook.GitLabEvent) (*Event, error) {
	var payload gitLabPayload
	if err := json.Unmarshal(glEvent.RawPayload, &payload); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}

	if payload.ObjectKind != "merge_request" {
		return nil, fmt.Errorf("unhandled object kind: %s", payload.ObjectKind)
	}

	parts := strings.SplitN(payload.Project.PathWithNamespace, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid project path: %s", payload.Project.PathWithNamespace)
	}

	event := &Event{
		Provider: "gitlab",
		Owner:    parts[0],
		Repo:     parts[1],
		Number:   payload.ObjectAttributes.IID,
	}

	switch payload.ObjectAttributes.Action {
	case "open", "reopen":
		event.Action = ActionOpened
	case "update":
		event.Action = ActionUpdated
	default:
		return nil, fmt.Errorf("unhandled merge_request action: %s", payload.ObjectAttributes.Action)
	}

	return event, nil
}
