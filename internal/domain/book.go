// Package domain contains the core entities of the Bookly recommendation service.
package domain

// Book is a catalogued book.
//
// MoodTags holds the mood labels as a single comma-separated string
// ("adventurous, Whimsical ,UPLIFTING"). Labels keep whatever casing and
// spacing they were stored with; the recommend package normalizes them.
type Book struct {
	ID            string `json:"id" doc:"Unique identifier"`
	Title         string `json:"title" doc:"Book title"`
	Author        string `json:"author" doc:"Author name"`
	Genre         string `json:"genre" doc:"Genre, matched case-insensitively"`
	MoodTags      string `json:"mood_tags" doc:"Comma-separated mood labels"`
	Description   string `json:"description" doc:"Short description"`
	CoverImageURL string `json:"cover_image_url" doc:"Cover image URL"`
}

// NewBook builds a Book from its fields and the given identifier.
func NewBook(id string, fields BookFields) *Book {
	return &Book{
		ID:            id,
		Title:         fields.Title,
		Author:        fields.Author,
		Genre:         fields.Genre,
		MoodTags:      fields.MoodTags,
		Description:   fields.Description,
		CoverImageURL: fields.CoverImageURL,
	}
}

// BookFields is everything about a Book except its identifier.
// Seed catalog entries and create requests both use this shape.
type BookFields struct {
	Title         string `json:"title" validate:"required,max=500"`
	Author        string `json:"author" validate:"required,max=500"`
	Genre         string `json:"genre" validate:"required,max=200"`
	MoodTags      string `json:"mood_tags" validate:"required,max=1000"`
	Description   string `json:"description" validate:"max=10000"`
	CoverImageURL string `json:"cover_image_url" validate:"omitempty,url"`
}
