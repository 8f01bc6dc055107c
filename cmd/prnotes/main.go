package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ewanhart/prnotes/internal/app"
	"github.com/ewanhart/prnotes/internal/config"
	"github.com/ewanhart/prnotes/internal/gitlog"
	"github.com/ewanhart/prnotes/internal/notes"
	"github.com/ewanhart/prnotes/internal/provider"
	githubprov "github.com/ewanhart/prnotes/internal/provider/github"
	gitlabprov "github.com/ewanhart/prnotes/internal/provider/gitlab"
	"github.com/ewanhart/prnotes/internal/server"
	"github.com/joho/godotenv"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "update":
		runUpdate(os.Args[2:])
	case "render":
		runRender(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "version":
		fmt.Printf("prnotes v%s\n", version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: prnotes <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  update   Regenerate the notes section of a pull request description")
	fmt.Println("  render   Print notes for the local git log since the last release")
	fmt.Println("  serve    Start the webhook server")
	fmt.Println("  version  Print version information")
}

// loadEnv loads a .env file if specified, or tries the default locations.
func loadEnv(envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Warning: could not load env file %s: %v", envFile, err)
		}
		return
	}
	godotenv.Load(".env")
	godotenv.Load("/etc/prnotes/prnotes.env")
}

// loadConfigLenient loads the config file, falling back to defaults with
// tokens from the environment when the file does not exist.
func loadConfigLenient(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg = config.DefaultConfig()
	cfg.Providers.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	cfg.Providers.GitLab.Token = os.Getenv("GITLAB_TOKEN")
	return cfg, nil
}

// buildProvider constructs the named provider from config.
func buildProvider(name string, cfg *config.Config) (provider.Provider, error) {
	switch name {
	case "github":
		var opts []githubprov.Option
		if cfg.Providers.GitHub.BaseURL != "" {
			opts = append(opts, githubprov.WithBaseURL(cfg.Providers.GitHub.BaseURL))
		}
		return githubprov.New(cfg.Providers.GitHub.Token, opts...), nil
	case "gitlab":
		var opts []gitlabprov.Option
		if cfg.Providers.GitLab.BaseURL != "" {
			opts = append(opts, gitlabprov.WithBaseURL(cfg.Providers.GitLab.BaseURL))
		}
		return gitlabprov.New(cfg.Providers.GitLab.Token, opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}

func runUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	providerName := fs.String("provider", "github", "Provider to use (github, gitlab)")
	repoFlag := fs.String("repo", "", "Repository as owner/name")
	number := fs.Int("number", 0, "Pull request number")
	fs.Parse(args)

	if *repoFlag == "" || *number == 0 {
		log.Fatal("Both --repo and --number are required")
	}

	parts := strings.SplitN(*repoFlag, "/", 2)
	if len(parts) != 2 {
		log.Fatalf("Invalid --repo %q, want owner/name", *repoFlag)
	}

	loadEnv(*envFile)

	cfg, err := loadConfigLenient(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	p, err := buildProvider(*providerName, cfg)
	if err != nil {
		log.Fatal(err)
	}

	res, err := app.Update(context.Background(), p, p, parts[0], parts[1], *number, app.Options{
		Tickets: cfg.Notes.Tickets,
	})
	if err != nil {
		log.Fatalf("Failed to update description: %v", err)
	}

	fmt.Printf("%s/%s#%d: %s\n", parts[0], parts[1], *number, res.Outcome)
}

func runRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	repoPath := fs.String("repo-path", "", "Path to the git checkout (defaults to config git.repo_path)")
	fs.Parse(args)

	cfg, err := loadConfigLenient(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	path := cfg.Git.RepoPath
	if *repoPath != "" {
		path = *repoPath
	}

	collector := gitlog.Collector{RepoPath: path}
	commits, err := collector.CommitsSinceLastRelease(context.Background())
	if err != nil {
		log.Fatalf("Failed to read git log: %v", err)
	}

	section := notes.Render(app.Classify(commits), notes.WithTickets(cfg.Notes.Tickets))
	fmt.Println(notes.StartMarker)
	fmt.Println(section)
	fmt.Println(notes.EndMarker)
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	fs.Parse(args)

	loadEnv(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	srv := server.New(cfg)

	log.Printf("Starting prnotes server on %s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := srv.ListenAndServeWithShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
