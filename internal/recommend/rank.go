package recommend

import (
	"cmp"
	"slices"

	"github.com/booklyapp/bookly-server/internal/domain"
)

// MaxResults caps the number of books in a Result.
const MaxResults = 5

// Result is a ranked, truncated recommendation.
type Result struct {
	Books        []domain.Book
	TotalMatches int
}

// Scored pairs a candidate with its score.
type Scored struct {
	Book  domain.Book
	Score Score
}

// RankAll returns every candidate in books, ordered by score descending.
// Candidates with equal scores keep their input order.
func RankAll(mood Mood, books []domain.Book) []Scored {
	ranked := make([]Scored, 0, len(books))
	for _, b := range books {
		tags := ParseMoodTags(b.MoodTags)
		if !mood.Matches(tags) {
			continue
		}
		ranked = append(ranked, Scored{Book: b, Score: mood.Score(tags)})
	}

	slices.SortStableFunc(ranked, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}

// Rank returns the first MaxResults candidates of RankAll and the total
// number of candidates. Books is never nil.
func Rank(mood Mood, books []domain.Book) Result {
	ranked := RankAll(mood, books)

	top := make([]domain.Book, 0, min(len(ranked), MaxResults))
	for _, s := range ranked[:min(len(ranked), MaxResults)] {
		top = append(top, s.Book)
	}

	return Result{Books: top, TotalMatches: len(ranked)}
}
