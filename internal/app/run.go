package app

import (
	"context"
	"fmt"
	"log"

	"github.com/ewanhart/prnotes/internal/commit"
	"github.com/ewanhart/prnotes/internal/metrics"
	"github.com/ewanhart/prnotes/internal/notes"
	"github.com/ewanhart/prnotes/internal/provider"
)

// Outcome describes what Update did with a pull request description.
type Outcome string

const (
	// OutcomeUpdated means a new description was published.
	OutcomeUpdated Outcome = "updated"

	// OutcomeSkipped means the description carried the skip marker.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeUnchanged means the spliced description matched the current
	// one, so nothing was published.
	OutcomeUnchanged Outcome = "unchanged"
)

// Result reports the final description and how it was arrived at.
type Result struct {
	Outcome     Outcome
	Description string
	Commits     int
}

// Options controls rendering behaviour.
type Options struct {
	Tickets bool
}

// Update regenerates the autogenerated notes section of a pull request
// description and publishes it when the text changed. Classification never
// fails; malformed markers in the existing description propagate as a hard
// error without touching the document.
func Update(ctx context.Context, src provider.CommitSource, store provider.DescriptionStore, owner, repo string, number int, opts Options) (*Result, error) {
	pr, err := store.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	// Honour the skip marker before spending API calls on commits.
	if notes.ShouldSkip(pr.Description) {
		log.Printf("Skip marker present on %s/%s#%d, leaving description alone", owner, repo, number)
		metrics.DescriptionSkipped()
		return &Result{Outcome: OutcomeSkipped, Description: pr.Description}, nil
	}

	raw, err := src.ListCommits(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("listing commits for %s/%s#%d: %w", owner, repo, number, err)
	}

	classified := Classify(raw)

	updated, err := notes.Splice(pr.Description, classified, notes.WithTickets(opts.Tickets))
	if err != nil {
		metrics.UpdateFailed()
		return nil, fmt.Errorf("splicing description of %s/%s#%d: %w", owner, repo, number, err)
	}

	if updated == pr.Description {
		metrics.DescriptionUnchanged()
		return &Result{Outcome: OutcomeUnchanged, Description: updated, Commits: len(classified)}, nil
	}

	if err := store.UpdateDescription(ctx, owner, repo, number, updated); err != nil {
		metrics.UpdateFailed()
		return nil, fmt.Errorf("publishing description of %s/%s#%d: %w", owner, repo, number, err)
	}

	log.Printf("Updated description of %s/%s#%d (%d commits)", owner, repo, number, len(classified))
	metrics.DescriptionUpdated()
	return &Result{Outcome: OutcomeUpdated, Description: updated, Commits: len(classified)}, nil
}

// Classify turns raw commits into classified records, dropping synthetic
// merge references.
func Classify(raw []provider.Commit) []commit.Classified {
	var classified []commit.Classified
	for _, c := range raw {
		if commit.IsMergeRef(c.Subject) {
			continue
		}
		classified = append(classified, commit.Classify(c.Subject, c.Body))
	}
	return classified
}
