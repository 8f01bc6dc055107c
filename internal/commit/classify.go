package commit

import (
	"regexp"
	"strings"
)

// subjectPattern matches "type(scope)!: summary" subjects. Type validity
// is checked separately so unknown types degrade to TypeOther.
var subjectPattern = regexp.MustCompile(`^([A-Za-z]+)(?:\(([^)]+)\))?(!)?: (.*)$`)

// mergeRefPattern matches GitHub's synthetic "Merge <sha> into <sha>"
// subjects pushed on pull request branches.
var mergeRefPattern = regexp.MustCompile(`Merge [0-9a-f]+ into [0-9a-f]+`)

var knownTypes = map[string]Type{
	"feat":     TypeFeat,
	"fix":      TypeFix,
	"docs":     TypeDocs,
	"style":    TypeStyle,
	"refactor": TypeRefactor,
	"perf":     TypePerf,
	"test":     TypeTest,
	"build":    TypeBuild,
	"ci":       TypeCI,
	"chore":    TypeChore,
	"revert":   TypeRevert,
}

var breakingMarkers = []string{"BREAKING CHANGE:", "BREAKING-CHANGE:"}

// Classify parses a commit subject and body into a Classified record. It
// never fails: subjects that don't follow the conventional-commit grammar
// fall back to TypeOther with the whole subject as the summary.
func Classify(subject, body string) Classified {
	subject = strings.TrimSpace(subject)
	c := Classified{Type: TypeOther, Summary: subject}

	if m := subjectPattern.FindStringSubmatch(subject); m != nil {
		if typ, ok := knownTypes[strings.ToLower(m[1])]; ok {
			c.Type = typ
			c.Scope = m[2]
			c.Breaking = m[3] == "!"
			c.Summary = strings.TrimSpace(m[4])
		}
	}

	if note, ok := breakingNote(body); ok {
		c.Breaking = true
		c.BreakingNote = note
	}

	return c
}

// IsMergeRef reports whether the subject is a synthetic merge reference
// rather than an authored commit message.
func IsMergeRef(subject string) bool {
	return mergeRefPattern.MatchString(subject)
}

// breakingNote scans the body for a line starting with a BREAKING CHANGE
// marker and returns everything after the marker through the end of the
// body, trimmed.
func breakingNote(body string) (string, bool) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		rest, ok := cutBreakingMarker(line)
		if !ok {
			continue
		}
		note := strings.Join(append([]string{rest}, lines[i+1:]...), "\n")
		return strings.TrimSpace(note), true
	}
	return "", false
}

// cutBreakingMarker strips a leading BREAKING CHANGE marker from the line,
// matched case-insensitively.
func cutBreakingMarker(line string) (string, bool) {
	upper := strings.ToUpper(line)
	for _, marker := range breakingMarkers {
		if strings.HasPrefix(upper, marker) {
			return line[len(marker):], true
		}
	}
	return "", false
}
