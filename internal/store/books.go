package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/booklyapp/bookly-server/internal/domain"
)

// PutDocument stores a raw book document under id and indexes it by
// insertion order and, when the document has a string genre, by genre.
func (s *Store) PutDocument(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seqs, err := nextSeqs(s.bookSeq, 1)
	if err != nil {
		return err
	}
	seq := seqs[0]
	g, hasGenre := Document{Key: id, Data: data}.Genre()

	err = s.db.Update(func(txn *badger.Txn) error {
		key := bookKey(id)
		if _, err := txn.Get(key); err == nil {
			return ErrBookExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check book exists: %w", err)
		}
		return putBook(txn, id, data, seq, g, hasGenre)
	})
	if err != nil {
		if errors.Is(err, ErrBookExists) {
			return err
		}
		return fmt.Errorf("put book %s: %w", id, err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "book stored",
			slog.String("id", id),
			slog.String("genre", g),
		)
	}
	s.eventEmitter.Emit(BookCreatedEvent{ID: id, Genre: g})

	return nil
}

func putBook(txn *badger.Txn, id string, data []byte, seq uint64, g string, hasGenre bool) error {
	if err := txn.Set(bookKey(id), data); err != nil {
		return err
	}
	if err := txn.Set(bookSeqKey(seq), []byte(id)); err != nil {
		return err
	}
	if hasGenre {
		if err := txn.Set(bookGenreKey(g, seq), []byte(id)); err != nil {
			return err
		}
	}
	return nil
}

// InsertBook encodes book and stores it under book.ID.
func (s *Store) InsertBook(ctx context.Context, book *domain.Book) error {
	data, err := EncodeBook(book)
	if err != nil {
		return err
	}
	return s.PutDocument(ctx, book.ID, data)
}

// GetBook retrieves and strictly decodes a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(id))
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		doc = Document{Key: id, Data: data}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}

	return DecodeBook(doc)
}

// BooksByGenre scans the genre index, which holds case-folded genres in
// hex, so the lookup is an exact prefix match on the folded value.
func (s *Store) BooksByGenre(ctx context.Context, genre string) ([]Document, error) {
	docs, err := s.scanIndex(ctx, bookGenrePrefix(genre))
	if err != nil {
		return nil, fmt.Errorf("books by genre: %w", err)
	}
	return docs, nil
}

// AllBooks returns every book document in insertion order.
func (s *Store) AllBooks(ctx context.Context) ([]Document, error) {
	docs, err := s.scanIndex(ctx, []byte(bookBySeqPrefix))
	if err != nil {
		return nil, fmt.Errorf("all books: %w", err)
	}
	return docs, nil
}

// scanIndex walks an index whose values are book IDs and loads each
// document, all inside one read transaction.
func (s *Store) scanIndex(ctx context.Context, prefix []byte) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs := []Document{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			idBytes, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			id := string(idBytes)

			item, err := txn.Get(bookKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				if s.logger != nil {
					s.logger.Warn("dangling book index entry", "index_key", string(it.Item().Key()), "id", id)
				}
				continue
			}
			if err != nil {
				return err
			}

			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			docs = append(docs, Document{Key: id, Data: data})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// ReplaceBooks deletes every book and index entry and inserts books, all
// in one transaction. Readers see either the old or the new collection.
func (s *Store) ReplaceBooks(ctx context.Context, books []*domain.Book) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	encoded := make([][]byte, len(books))
	for i, b := range books {
		data, err := EncodeBook(b)
		if err != nil {
			return 0, err
		}
		encoded[i] = data
	}

	seqs, err := nextSeqs(s.bookSeq, len(books))
	if err != nil {
		return 0, err
	}

	var removed int
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, prefix := range []string{bookPrefix, bookIndexPrefix} {
			keys := collectKeys(txn, []byte(prefix))
			if prefix == bookPrefix {
				removed = len(keys)
			}
			for _, k := range keys {
				if err := txn.Delete(k); err != nil {
					return err
				}
			}
		}

		for i, b := range books {
			if err := putBook(txn, b.ID, encoded[i], seqs[i], b.Genre, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replace books: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book collection replaced",
			slog.Int("removed", removed),
			slog.Int("inserted", len(books)),
		)
	}
	s.eventEmitter.Emit(BooksReplacedEvent{Count: len(books)})

	return len(books), nil
}

// CountBooks counts book documents.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		n = len(collectKeys(txn, []byte(bookBySeqPrefix)))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
