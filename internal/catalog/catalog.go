// Package catalog holds the built-in sample catalog used to populate the store.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/booklyapp/bookly-server/internal/domain"
)

//go:embed books.json
var booksJSON []byte

// Books returns a fresh copy of the sample catalog in its canonical order.
func Books() ([]domain.BookFields, error) {
	var books []domain.BookFields
	if err := json.Unmarshal(booksJSON, &books); err != nil {
		return nil, fmt.Errorf("decode sample catalog: %w", err)
	}
	return books, nil
}
