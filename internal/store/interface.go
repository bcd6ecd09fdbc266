// Package store defines the persistence layer for the Bookly server and
// provides the Badger-backed implementation.
package store

import (
	"context"

	"github.com/booklyapp/bookly-server/internal/domain"
)

// BookStore is the document collection behind the services.
//
// Book reads return raw Documents in insertion order so callers decide
// how strictly to decode each one. Every read runs in a single
// transaction, so one call sees one snapshot of the collection.
type BookStore interface {
	// PutDocument stores a raw book document under id.
	// Returns ErrBookExists if id is taken.
	PutDocument(ctx context.Context, id string, data []byte) error
	// InsertBook encodes and stores book under book.ID.
	InsertBook(ctx context.Context, book *domain.Book) error
	// GetBook returns the decoded book with id, or ErrBookNotFound.
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	// BooksByGenre returns documents whose genre equals genre under case
	// folding. The argument is compared literally, never as a pattern.
	BooksByGenre(ctx context.Context, genre string) ([]Document, error)
	// AllBooks returns every book document.
	AllBooks(ctx context.Context) ([]Document, error)
	// ReplaceBooks atomically swaps the whole collection for books and
	// returns the number inserted.
	ReplaceBooks(ctx context.Context, books []*domain.Book) (int, error)
	// CountBooks returns the number of stored book documents.
	CountBooks(ctx context.Context) (int, error)

	// InsertStatusCheck records a status check.
	InsertStatusCheck(ctx context.Context, check *domain.StatusCheck) error
	// ListStatusChecks returns up to limit checks, oldest first.
	ListStatusChecks(ctx context.Context, limit int) ([]*domain.StatusCheck, error)

	// Ping reports whether the store can serve reads.
	Ping(ctx context.Context) error
	// Close releases the underlying database.
	Close() error
}

// EventEmitter receives change notifications from a store.
// Store uses this to report changes without depending on who listens.
type EventEmitter interface {
	Emit(event any)
}

// BookCreatedEvent is emitted after a single book document is stored.
type BookCreatedEvent struct {
	ID    string
	Genre string
}

// BooksReplacedEvent is emitted after the collection is replaced.
type BooksReplacedEvent struct {
	Count int
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}
