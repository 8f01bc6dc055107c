package notes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ewanhart/prnotes/internal/commit"
)

// category pairs a commit type with its section heading. The order of the
// table is the render order.
type category struct {
	typ     commit.Type
	heading string
}

var categories = []category{
	{commit.TypeFeat, "## ✨ Features"},
	{commit.TypeFix, "## 🐛 Bug Fixes"},
	{commit.TypeDocs, "## 📚 Documentation"},
	{commit.TypeStyle, "## 💅 Style"},
	{commit.TypeRefactor, "## ♻️ Refactoring"},
	{commit.TypePerf, "## ⚡️ Performance Improvements"},
	{commit.TypeTest, "## 🧪 Tests"},
	{commit.TypeBuild, "## 🏗️ Build System"},
	{commit.TypeCI, "## 🤖 CI"},
	{commit.TypeChore, "## 🧹 Chores"},
	{commit.TypeRevert, "## ⏮️ Reverts"},
	{commit.TypeOther, "## 🔀 Other"},
}

const (
	breakingChangePrefix       = "💥 **BREAKING CHANGE:** "
	upgradeInstructionsHeading = "# 🔄 Upgrade instructions"
	ticketsHeading             = "# Tickets"
)

// ticketPattern matches issue-tracker references like "ABC-123".
var ticketPattern = regexp.MustCompile(`[a-zA-Z]{2,6}-\d+`)

// Option configures rendering.
type Option func(*renderer)

// WithTickets toggles the ticket-reference block.
func WithTickets(enabled bool) Option {
	return func(r *renderer) {
		r.tickets = enabled
	}
}

type renderer struct {
	tickets bool
}

// Render builds the autogenerated notes section for the given commits.
// Sections follow the fixed category order with empty sections omitted;
// commits keep their input order within a section. Breaking changes get a
// warning block on top and an upgrade-instructions block at the bottom.
func Render(commits []commit.Classified, opts ...Option) string {
	r := &renderer{tickets: true}
	for _, opt := range opts {
		opt(r)
	}

	var b strings.Builder

	if r.tickets {
		writeTickets(&b, commits)
	}
	writeBreakingWarning(&b, commits)

	grouped := make(map[commit.Type][]commit.Classified)
	for _, c := range commits {
		grouped[c.Type] = append(grouped[c.Type], c)
	}

	for _, cat := range categories {
		group := grouped[cat.typ]
		if len(group) == 0 {
			continue
		}
		b.WriteString(cat.heading + "\n")
		for _, c := range group {
			if c.Scope != "" {
				fmt.Fprintf(&b, "- **%s:** %s\n", c.Scope, c.Summary)
			} else {
				fmt.Fprintf(&b, "- %s\n", c.Summary)
			}
		}
		b.WriteString("\n")
	}

	writeUpgradeInstructions(&b, commits)

	return strings.TrimRight(b.String(), "\n")
}

// writeTickets lists issue-tracker references found in commit summaries,
// deduplicated in first-seen order.
func writeTickets(b *strings.Builder, commits []commit.Classified) {
	seen := make(map[string]bool)
	var tickets []string
	for _, c := range commits {
		for _, ticket := range ticketPattern.FindAllString(c.Summary, -1) {
			if !seen[ticket] {
				seen[ticket] = true
				tickets = append(tickets, ticket)
			}
		}
	}
	if len(tickets) == 0 {
		return
	}

	b.WriteString(ticketsHeading + "\n")
	for _, ticket := range tickets {
		b.WriteString("- " + ticket + "\n")
	}
	b.WriteString("\n")
}

// writeBreakingWarning emits the warning block listing every breaking
// commit's summary.
func writeBreakingWarning(b *strings.Builder, commits []commit.Classified) {
	var breaking []commit.Classified
	for _, c := range commits {
		if c.Breaking {
			breaking = append(breaking, c)
		}
	}
	if len(breaking) == 0 {
		return
	}

	if len(breaking) == 1 {
		b.WriteString("**IMPORTANT:** There is 1 breaking change.\n\n")
	} else {
		fmt.Fprintf(b, "**IMPORTANT:** There are %d breaking changes.\n\n", len(breaking))
	}
	for _, c := range breaking {
		b.WriteString(breakingChangePrefix + c.Summary + "\n")
	}
	b.WriteString("\n")
}

// writeUpgradeInstructions concatenates the non-empty breaking notes, one
// paragraph per commit, in commit order.
func writeUpgradeInstructions(b *strings.Builder, commits []commit.Classified) {
	var instructions []string
	for _, c := range commits {
		if c.Breaking && c.BreakingNote != "" {
			instructions = append(instructions, c.BreakingNote)
		}
	}
	if len(instructions) == 0 {
		return
	}

	b.WriteString("---\n" + upgradeInstructionsHeading + "\n\n")
	b.WriteString(strings.Join(instructions, "\n\n"))
	b.WriteString("\n")
}
