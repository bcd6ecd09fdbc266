package store

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/booklyapp/bookly-server/internal/domain"
	"github.com/booklyapp/bookly-server/internal/validation"
)

var documentValidator = validation.New()

// Document is one stored book record before it is decoded into a Book.
type Document struct {
	// Key is the primary key the document is stored under.
	Key string
	// Data is the raw JSON document. It is owned by the Document.
	Data []byte
}

// storedBook mirrors domain.Book with pointer fields so absent, null and
// mistyped fields can be told apart from empty strings.
type storedBook struct {
	ID            *string `json:"id"`
	Title         *string `json:"title" validate:"required"`
	Author        *string `json:"author" validate:"required"`
	Genre         *string `json:"genre" validate:"required"`
	MoodTags      *string `json:"mood_tags" validate:"required"`
	Description   *string `json:"description" validate:"required"`
	CoverImageURL *string `json:"cover_image_url" validate:"required"`
}

// DecodeBook strictly decodes doc. Every Book field except id must be
// present as a JSON string; empty strings are allowed. A missing id falls
// back to the document key. Failures wrap ErrMalformedDocument.
func DecodeBook(doc Document) (*domain.Book, error) {
	var sb storedBook
	if err := json.Unmarshal(doc.Data, &sb); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, doc.Key, err)
	}
	if err := documentValidator.Validate(sb); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, doc.Key, err)
	}

	id := doc.Key
	if sb.ID != nil && *sb.ID != "" {
		id = *sb.ID
	}

	return &domain.Book{
		ID:            id,
		Title:         *sb.Title,
		Author:        *sb.Author,
		Genre:         *sb.Genre,
		MoodTags:      *sb.MoodTags,
		Description:   *sb.Description,
		CoverImageURL: *sb.CoverImageURL,
	}, nil
}

// EncodeBook returns the stored JSON form of book.
func EncodeBook(book *domain.Book) ([]byte, error) {
	data, err := json.Marshal(book)
	if err != nil {
		return nil, fmt.Errorf("encode book %s: %w", book.ID, err)
	}
	return data, nil
}

// MoodTags returns the raw mood_tags string of the document. A missing or
// non-string value, or unparseable JSON, yields "".
func (d Document) MoodTags() string {
	s, _ := d.stringField("mood_tags")
	return s
}

// Genre returns the raw genre string and whether it was present as a string.
func (d Document) Genre() (string, bool) {
	return d.stringField("genre")
}

func (d Document) stringField(name string) (string, bool) {
	var fields map[string]any
	if err := json.Unmarshal(d.Data, &fields); err != nil {
		return "", false
	}
	s, ok := fields[name].(string)
	return s, ok
}
