package notes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ewanhart/prnotes/internal/commit"
)

// Sentinel markers delimiting the autogenerated region of a description.
// They must match these literals exactly.
const (
	StartMarker = "<!--- START AUTOGENERATED NOTES --->"
	EndMarker   = "<!--- END AUTOGENERATED NOTES --->"
	SkipMarker  = "<!--- SKIP AUTOGENERATED NOTES --->"
)

// ErrMalformedMarkers reports a description with exactly one sentinel
// marker, or the end marker before the start marker. The splicer refuses
// to guess a fix for such documents.
var ErrMalformedMarkers = errors.New("malformed autogenerated notes markers")

// ShouldSkip reports whether the description opts out of autogeneration.
func ShouldSkip(description string) bool {
	return strings.Contains(description, SkipMarker)
}

// Splice renders the commits and replaces the marker-delimited region of
// the description with the result. Text outside the markers is never
// touched. Descriptions without markers get the region appended;
// descriptions containing the skip marker come back unchanged.
func Splice(description string, commits []commit.Classified, opts ...Option) (string, error) {
	if ShouldSkip(description) {
		return description, nil
	}

	section := Render(commits, opts...)

	start := strings.Index(description, StartMarker)
	end := strings.Index(description, EndMarker)

	switch {
	case start == -1 && end == -1:
		block := StartMarker + "\n" + section + "\n" + EndMarker
		if description == "" {
			return block, nil
		}
		return description + "\n\n" + block, nil
	case start == -1:
		return "", fmt.Errorf("%w: end marker without start marker", ErrMalformedMarkers)
	case end == -1:
		return "", fmt.Errorf("%w: start marker without end marker", ErrMalformedMarkers)
	case end < start:
		return "", fmt.Errorf("%w: end marker precedes start marker", ErrMalformedMarkers)
	}

	// end is the first end marker in the document, and the cases above
	// guarantee it sits after start.
	before := description[:start+len(StartMarker)]
	after := description[end:]
	return before + "\n" + section + "\n" + after, nil
}
