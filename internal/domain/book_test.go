package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBook(t *testing.T) {
	fields := BookFields{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		MoodTags:      "epic,adventurous,complex",
		Description:   "Desert planet politics.",
		CoverImageURL: "https://example.com/dune.jpg",
	}

	book := NewBook("book-1", fields)

	assert.Equal(t, &Book{
		ID:            "book-1",
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		MoodTags:      "epic,adventurous,complex",
		Description:   "Desert planet politics.",
		CoverImageURL: "https://example.com/dune.jpg",
	}, book)
}
