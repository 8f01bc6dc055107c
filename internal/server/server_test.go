package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ewanhart/prnotes/internal/config"
	"github.com/ewanhart/prnotes/internal/provider"
)

// fakeProvider implements provider.Provider in memory.
type fakeProvider struct {
	name        string
	description string
	commits     []provider.Commit
	published   string
	updateCalls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GetPullRequest(ctx context.Context, owner, repo string, number int) (*provider.PullRequest, error) {
	return &provider.PullRequest{Number: number, Description: f.description}, nil
}

func (f *fakeProvider) ListCommits(ctx context.Context, owner, repo string, number int) ([]provider.Commit, error) {
	return f.commits, nil
}

func (f *fakeProvider) UpdateDescription(ctx context.Context, owner, repo string, number int, description string) error {
	f.updateCalls++
	f.published = description
	return nil
}

func signGitHub(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestServer_Health(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewWithProviders(cfg, map[string]provider.Provider{
		"github": &fakeProvider{name: "github"},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("unmarshaling health response: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("Status = %q, want %q", health.Status, "ok")
	}
	if !health.Checks["github"] {
		t.Error("Checks[github] = false, want true")
	}
	if health.Checks["gitlab"] {
		t.Error("Checks[gitlab] = true, want false")
	}
}

func TestServer_HealthDegradedWithoutProviders(t *testing.T) {
	s := NewWithProviders(config.DefaultConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("unmarshaling health response: %v", err)
	}
	if health.Status != "degraded" {
		t.Errorf("Status = %q, want %q", health.Status, "degraded")
	}
}

func TestServer_Metrics(t *testing.T) {
	s := NewWithProviders(config.DefaultConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
}

func TestServer_GitHubWebhookTriggersUpdate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.GitHub.WebhookSecret = "test-secret"

	fake := &fakeProvider{
		name:        "github",
		description: "Intro.",
		commits:     []provider.Commit{{Subject: "feat(api): add endpoint"}},
	}
	s := NewWithProviders(cfg, map[string]provider.Provider{"github": fake})

	payload := `{
		"action": "opened",
		"number": 42,
		"repository": {"full_name": "owner/repo"}
	}`

	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(payload))
	req.Header.Set("X-Hub-Signature-256", signGitHub("test-secret", payload))
	req.Header.Set("X-GitHub-Event", "pull_request")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if fake.updateCalls != 1 {
		t.Fatalf("UpdateDescription called %d times, want 1", fake.updateCalls)
	}
	if !strings.Contains(fake.published, "- **api:** add endpoint") {
		t.Errorf("published description missing bullet, got %q", fake.published)
	}
}

func TestServer_GitHubWebhookIgnoresUnhandledAction(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.GitHub.WebhookSecret = "test-secret"

	fake := &fakeProvider{name: "github"}
	s := NewWithProviders(cfg, map[string]provider.Provider{"github": fake})

	payload := `{
		"action": "closed",
		"number": 42,
		"repository": {"full_name": "owner/repo"}
	}`

	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(payload))
	req.Header.Set("X-Hub-Signature-256", signGitHub("test-secret", payload))
	req.Header.Set("X-GitHub-Event", "pull_request")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if fake.updateCalls != 0 {
		t.Errorf("UpdateDescription called %d times, want 0", fake.updateCalls)
	}
}

func TestServer_WebhookRouteAbsentWithoutSecret(t *testing.T) {
	s := NewWithProviders(config.DefaultConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServer_GitLabWebhookTriggersUpdate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.GitLab.WebhookSecret = "gl-secret"

	fake := &fakeProvider{
		name:        "gitlab",
		description: "",
		commits:     []provider.Commit{{Subject: "fix: handle nil response"}},
	}
	s := NewWithProviders(cfg, map[string]provider.Provider{"gitlab": fake})

	payload := `{
		"object_kind": "merge_request",
		"project": {"path_with_namespace": "group/project"},
		"object_attributes": {"iid": 7, "action": "open"}
	}`

	req := httptest.NewRequest(http.MethodPost, "/webhook/gitlab", strings.NewReader(payload))
	req.Header.Set("X-Gitlab-Token", "gl-secret")
	req.Header.Set("X-Gitlab-Event", "Merge Request Hook")
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if fake.updateCalls != 1 {
		t.Fatalf("UpdateDescription called %d times, want 1", fake.updateCalls)
	}
	if !strings.Contains(fake.published, "- handle nil response") {
		t.Errorf("published description missing bullet, got %q", fake.published)
	}
}
