package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ewanhart/prnotes/internal/app"
	"github.com/ewanhart/prnotes/internal/config"
	"github.com/ewanhart/prnotes/internal/event"
	"github.com/ewanhart/prnotes/internal/metrics"
	"github.com/ewanhart/prnotes/internal/provider"
	"github.com/ewanhart/prnotes/internal/provider/github"
	"github.com/ewanhart/prnotes/internal/provider/gitlab"
	"github.com/ewanhart/prnotes/internal/webhook"
)

// updateTimeout bounds a single description update triggered by a webhook.
const updateTimeout = 60 * time.Second

// HealthResponse represents the health check response structure.
type HealthResponse struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks"`
}

// Server is the HTTP server for prnotes serve mode.
type Server struct {
	cfg          *config.Config
	mux          *http.ServeMux
	providers    map[string]provider.Provider
	httpServer   *http.Server
	httpServerMu sync.RWMutex  // protects httpServer and listenAddr
	listenAddr   string
	ready        chan struct{} // closed when the server accepts connections
}

// New creates a new Server with providers built from the config.
func New(cfg *config.Config) *Server {
	providers := make(map[string]provider.Provider)

	if cfg.Providers.GitHub.Token != "" {
		var opts []github.Option
		if cfg.Providers.GitHub.BaseURL != "" {
			opts = append(opts, github.WithBaseURL(cfg.Providers.GitHub.BaseURL))
		}
		providers["github"] = github.New(cfg.Providers.GitHub.Token, opts...)
	}

	if cfg.Providers.GitLab.Token != "" {
		var opts []gitlab.Option
		if cfg.Providers.GitLab.BaseURL != "" {
			opts = append(opts, gitlab.WithBaseURL(cfg.Providers.GitLab.BaseURL))
		}
		providers["gitlab"] = gitlab.New(cfg.Providers.GitLab.Token, opts...)
	}

	return NewWithProviders(cfg, providers)
}

// NewWithProviders creates a new Server with injected providers. This
// allows dependency injection for testing.
func NewWithProviders(cfg *config.Config, providers map[string]provider.Provider) *Server {
	s := &Server{
		cfg:       cfg,
		mux:       http.NewServeMux(),
		providers: providers,
		ready:     make(chan struct{}),
	}
	s.routes()
	return s
}

// Ready returns a channel that is closed when the server is ready to
// accept connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// routes sets up the HTTP routes.
func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/metrics", s.handleMetrics)

	if s.cfg.Providers.GitHub.WebhookSecret != "" {
		githubHandler := webhook.NewGitHubHandler(
			s.cfg.Providers.GitHub.WebhookSecret,
			s.handleGitHubEvent,
		)
		s.mux.Handle("/webhook/github", githubHandler)
	}

	if s.cfg.Providers.GitLab.WebhookSecret != "" {
		gitlabHandler := webhook.NewGitLabHandler(
			s.cfg.Providers.GitLab.WebhookSecret,
			s.handleGitLabEvent,
		)
		s.mux.Handle("/webhook/gitlab", gitlabHandler)
	}
}

// handleHealth responds with server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]bool{
		"github": s.providers["github"] != nil,
		"gitlab": s.providers["gitlab"] != nil,
	}

	status := "ok"
	if len(s.providers) == 0 {
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: status, Checks: checks})
}

// handleMetrics responds with current operational metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := metrics.Get()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}

// handleGitHubEvent processes a GitHub webhook event.
func (s *Server) handleGitHubEvent(ghEvent *webhook.GitHubEvent) error {
	metrics.WebhookReceived()

	ev, err := event.NormalizeGitHubEvent(ghEvent)
	if err != nil {
		// Unhandled event types and actions are normal traffic, not errors.
		log.Printf("Ignoring GitHub event: %v", err)
		return nil
	}

	return s.dispatch(ev)
}

// handleGitLabEvent processes a GitLab webhook event.
func (s *Server) handleGitLabEvent(glEvent *webhook.GitLabEvent) error {
	metrics.WebhookReceived()

	ev, err := event.NormalizeGitLabEvent(glEvent)
	if err != nil {
		log.Printf("Ignoring GitLab event: %v", err)
		return nil
	}

	return s.dispatch(ev)
}

// dispatch runs a description update for the event's pull request. Update
// failures are logged rather than failing the webhook delivery.
func (s *Server) dispatch(ev *event.Event) error {
	p := s.providers[ev.Provider]
	if p == nil {
		log.Printf("No %s provider configured, dropping event for %s", ev.Provider, ev.Key())
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	res, err := app.Update(ctx, p, p, ev.Owner, ev.Repo, ev.Number, app.Options{
		Tickets: s.cfg.Notes.Tickets,
	})
	if err != nil {
		log.Printf("Failed to update %s: %v", ev.Key(), err)
		return nil
	}

	log.Printf("%s: %s (%d commits)", ev.Key(), res.Outcome, res.Commits)
	metrics.WebhookProcessed()
	return nil
}
