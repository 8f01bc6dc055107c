package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGitHubProvider_GetPullRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing or incorrect authorization header")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"number":   42,
			"title":    "Test PR",
			"body":     "Description",
			"html_url": "https://github.com/owner/repo/pull/42",
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	pr, err := p.GetPullRequest(context.Background(), "owner", "repo", 42)
	if err != nil {
		t.Fatalf("GetPullRequest() error = %v", err)
	}

	if pr.Number != 42 {
		t.Errorf("Number = %d, want %d", pr.Number, 42)
	}
	if pr.Description != "Description" {
		t.Errorf("Description = %q, want %q", pr.Description, "Description")
	}
}

func TestGitHubProvider_ListCommits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls/42/commits" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"sha": "abc123",
				"commit": map[string]interface{}{
					"message": "feat(api): add endpoint\n\nLonger body.",
					"author":  map[string]string{"name": "Dev One"},
				},
			},
			{
				"sha": "def456",
				"commit": map[string]interface{}{
					"message": "fix: handle nil response",
					"author":  map[string]string{"name": "Dev Two"},
				},
			},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	commits, err := p.ListCommits(context.Background(), "owner", "repo", 42)
	if err != nil {
		t.Fatalf("ListCommits() error = %v", err)
	}

	if len(commits) != 2 {
		t.Fatalf("ListCommits() returned %d commits, want 2", len(commits))
	}
	if commits[0].Subject != "feat(api): add endpoint" {
		t.Errorf("commits[0].Subject = %q, want %q", commits[0].Subject, "feat(api): add endpoint")
	}
	if commits[0].Body != "Longer body." {
		t.Errorf("commits[0].Body = %q, want %q", commits[0].Body, "Longer body.")
	}
	if commits[1].Body != "" {
		t.Errorf("commits[1].Body = %q, want empty", commits[1].Body)
	}
	if commits[0].Author != "Dev One" {
		t.Errorf("commits[0].Author = %q, want %q", commits[0].Author, "Dev One")
	}
}

func TestGitHubProvider_ListCommits_Paginated(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/owner/repo/pulls/42/commits?page=2>; rel="next"`, server.URL))
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"sha": "abc123", "commit": map[string]interface{}{"message": "feat: page one"}},
			})
			return
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"sha": "def456", "commit": map[string]interface{}{"message": "fix: page two"}},
		})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	commits, err := p.ListCommits(context.Background(), "owner", "repo", 42)
	if err != nil {
		t.Fatalf("ListCommits() error = %v", err)
	}

	if len(commits) != 2 {
		t.Fatalf("ListCommits() returned %d commits, want 2", len(commits))
	}
	if commits[0].Subject != "feat: page one" {
		t.Errorf("commits[0].Subject = %q, want %q", commits[0].Subject, "feat: page one")
	}
	if commits[1].Subject != "fix: page two" {
		t.Errorf("commits[1].Subject = %q, want %q", commits[1].Subject, "fix: page two")
	}
}

func TestGitHubProvider_UpdateDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/pulls/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPatch {
			t.Errorf("unexpected method: %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Body string `json:"body"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshaling request body: %v", err)
		}
		if payload.Body != "new description" {
			t.Errorf("body = %q, want %q", payload.Body, "new description")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"number": 42})
	}))
	defer server.Close()

	p := New("test-token", WithBaseURL(server.URL))
	if err := p.UpdateDescription(context.Background(), "owner", "repo", 42, "new description"); err != nil {
		t.Fatalf("UpdateDescription() error = %v", err)
	}
}

func TestGitHubProvider_Name(t *testing.T) {
	p := New("test-token")
	if p.Name() != "github" {
		t.Errorf("Name() = %q, want %q", p.Name(), "github")
	}
}
