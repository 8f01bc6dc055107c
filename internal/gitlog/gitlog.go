package gitlog

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ewanhart/prnotes/internal/provider"
)

// Pretty-format separators. Commit bodies can contain newlines, so records
// end with an explicit terminator instead.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "%H%x1f%an%x1f%s%x1f%b%x1f%d%x1e"
)

// releaseTagPattern matches a semver release tag in a ref decoration.
var releaseTagPattern = regexp.MustCompile(`tag: \d+\.\d+\.\d+`)

// Collector reads commits from a local git checkout.
type Collector struct {
	RepoPath string
}

// CommitsSinceLastRelease returns commits from HEAD back to, but not
// including, the most recent commit tagged with a semver release.
func (c Collector) CommitsSinceLastRelease(ctx context.Context) ([]provider.Commit, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", c.RepoPath, "log", "--pretty=format:"+logFormat)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}

	return parseLog(string(out)), nil
}

// parseLog splits pretty-formatted git log output into commits, stopping at
// the first record decorated with a release tag.
func parseLog(raw string) []provider.Commit {
	var commits []provider.Commit

	for _, record := range strings.Split(raw, recordSep) {
		parts := strings.SplitN(strings.TrimLeft(record, "\n"), fieldSep, 5)
		if len(parts) < 5 {
			continue
		}
		sha, author, subject, body, decoration := parts[0], parts[1], parts[2], parts[3], parts[4]

		if releaseTagPattern.MatchString(decoration) {
			break
		}

		commits = append(commits, provider.Commit{
			SHA:     strings.TrimSpace(sha),
			Subject: strings.TrimSpace(subject),
			Body:    strings.TrimSpace(body),
			Author:  strings.TrimSpace(author),
		})
	}

	return commits
}
