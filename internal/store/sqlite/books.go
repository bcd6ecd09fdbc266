package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/booklyapp/bookly-server/internal/domain"
	"github.com/booklyapp/bookly-server/internal/genre"
	"github.com/booklyapp/bookly-server/internal/store"
)

// genreKey returns the value stored in books.genre_key for a document.
func genreKey(doc store.Document) sql.NullString {
	g, ok := doc.Genre()
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: genre.Fold(g), Valid: true}
}

func insertDocument(ctx context.Context, ex interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, doc store.Document, now time.Time) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO books (id, genre_key, doc, created_at) VALUES (?, ?, ?, ?)`,
		doc.Key, genreKey(doc), string(doc.Data), formatTime(now),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrBookExists
	}
	return err
}

// PutDocument stores a raw book document under id.
func (s *Store) PutDocument(ctx context.Context, id string, data []byte) error {
	doc := store.Document{Key: id, Data: data}
	if err := insertDocument(ctx, s.db, doc, time.Now()); err != nil {
		if errors.Is(err, store.ErrBookExists) {
			return err
		}
		return fmt.Errorf("put book %s: %w", id, err)
	}

	g, _ := doc.Genre()
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "book stored",
			slog.String("id", id),
			slog.String("genre", g),
		)
	}
	s.emitter.Emit(store.BookCreatedEvent{ID: id, Genre: g})
	return nil
}

// InsertBook encodes book and stores it under book.ID.
func (s *Store) InsertBook(ctx context.Context, book *domain.Book) error {
	data, err := store.EncodeBook(book)
	if err != nil {
		return err
	}
	return s.PutDocument(ctx, book.ID, data)
}

// GetBook retrieves and strictly decodes a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM books WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return store.DecodeBook(store.Document{Key: id, Data: []byte(data)})
}

// BooksByGenre matches on the folded genre column with a bound parameter,
// so the genre is never interpreted by SQL or LIKE.
func (s *Store) BooksByGenre(ctx context.Context, g string) ([]store.Document, error) {
	docs, err := s.queryDocuments(ctx,
		`SELECT id, doc FROM books WHERE genre_key = ? ORDER BY seq`, genre.Fold(g))
	if err != nil {
		return nil, fmt.Errorf("books by genre: %w", err)
	}
	return docs, nil
}

// AllBooks returns every book document in insertion order.
func (s *Store) AllBooks(ctx context.Context) ([]store.Document, error) {
	docs, err := s.queryDocuments(ctx, `SELECT id, doc FROM books ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("all books: %w", err)
	}
	return docs, nil
}

func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []store.Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		docs = append(docs, store.Document{Key: id, Data: []byte(data)})
	}
	return docs, rows.Err()
}

// ReplaceBooks deletes every book and inserts books in one transaction.
func (s *Store) ReplaceBooks(ctx context.Context, books []*domain.Book) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx, `DELETE FROM books`)
	if err != nil {
		return 0, fmt.Errorf("clear books: %w", err)
	}
	removed, _ := res.RowsAffected() //nolint:errcheck // Only used for logging

	now := time.Now()
	for _, b := range books {
		data, err := store.EncodeBook(b)
		if err != nil {
			return 0, err
		}
		if err := insertDocument(ctx, tx, store.Document{Key: b.ID, Data: data}, now); err != nil {
			return 0, fmt.Errorf("insert book %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book collection replaced",
			slog.Int64("removed", removed),
			slog.Int("inserted", len(books)),
		)
	}
	s.emitter.Emit(store.BooksReplacedEvent{Count: len(books)})

	return len(books), nil
}

// CountBooks counts book documents.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
