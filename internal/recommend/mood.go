// Package recommend ranks books against a free-text mood.
//
// It works on books that already passed the genre filter. A book is a
// candidate when one of its mood tags and the query mood contain one
// another; candidates are scored and stably sorted, best first.
package recommend

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Score is the relevance of a candidate to the query mood.
type Score int

const (
	// ScoreReverse is a candidate matched only because a tag is a
	// substring of the query mood ("dark" for "very dark").
	ScoreReverse Score = 0
	// ScorePartial is a candidate with a tag containing the query mood.
	ScorePartial Score = 1
	// ScoreExact is a candidate with a tag equal to the query mood.
	ScoreExact Score = 2
)

// lower applies full Unicode lower-casing, including multi-rune mappings
// and the final form of sigma. Casers carry state, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ParseMoodTags splits a comma-separated mood_tags value into trimmed,
// lower-cased tags. Empty tags are dropped, so "" and ",," yield none.
func ParseMoodTags(raw string) []string {
	var tags []string
	for part := range strings.SplitSeq(raw, ",") {
		if tag := lower(strings.TrimSpace(part)); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Mood is a normalized query mood.
type Mood string

// NewMood lower-cases and trims raw. Any string is accepted, including "".
func NewMood(raw string) Mood {
	return Mood(strings.TrimSpace(lower(raw)))
}

// Matches reports whether some tag contains m or is contained in m.
// The empty mood matches any non-empty tag list.
func (m Mood) Matches(tags []string) bool {
	q := string(m)
	for _, t := range tags {
		if strings.Contains(t, q) || strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// Score rates tags against m. Callers should only score tags that Match.
func (m Mood) Score(tags []string) Score {
	q := string(m)
	partial := false
	for _, t := range tags {
		if t == q {
			return ScoreExact
		}
		if strings.Contains(t, q) {
			partial = true
		}
	}
	if partial {
		return ScorePartial
	}
	return ScoreReverse
}
