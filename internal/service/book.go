package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/booklyapp/bookly-server/internal/catalog"
	"github.com/booklyapp/bookly-server/internal/domain"
	domainerrors "github.com/booklyapp/bookly-server/internal/errors"
	"github.com/booklyapp/bookly-server/internal/metrics"
	"github.com/booklyapp/bookly-server/internal/store"
	"github.com/booklyapp/bookly-server/internal/validation"
)

// BookService orchestrates book operations.
type BookService struct {
	store        store.BookStore
	validator    *validation.Validator
	logger       *slog.Logger
	queryTimeout time.Duration
}

// NewBookService creates a new book service.
func NewBookService(s store.BookStore, v *validation.Validator, logger *slog.Logger, queryTimeout time.Duration) *BookService {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = validation.New()
	}
	return &BookService{
		store:        s,
		validator:    v,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// PopulateResult reports the outcome of Populate.
type PopulateResult struct {
	Message       string
	InsertedCount int
}

// ListBooks returns every well-formed book in collection order.
// Malformed documents are skipped with a warning.
func (s *BookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	docs, err := s.store.AllBooks(ctx)
	metrics.RecordStoreOperation("all_books", time.Since(start), err)
	if err != nil {
		s.logger.Error("failed to list books", "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list books")
	}

	books := make([]domain.Book, 0, len(docs))
	for _, doc := range docs {
		book, err := store.DecodeBook(doc)
		if err != nil {
			logMalformed(s.logger, doc, err)
			continue
		}
		books = append(books, *book)
	}
	return books, nil
}

// GetBook retrieves a single book by ID.
func (s *BookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		switch {
		case domainerrors.Is(err, store.ErrBookNotFound):
			return nil, domainerrors.NotFoundf("book %q not found", id).WithCause(err)
		case domainerrors.Is(err, store.ErrMalformedDocument):
			// A stored document that cannot be read is not servable either.
			logMalformed(s.logger, store.Document{Key: id}, err)
			return nil, domainerrors.NotFoundf("book %q not found", id).WithCause(err)
		}
		s.logger.Error("failed to get book", "id", id, "error", err)
		return nil, domainerrors.Wrapf(err, domainerrors.CodeInternal, "failed to get book %q", id)
	}
	return book, nil
}

// CreateBook validates fields and stores them as a new book with a fresh UUID.
func (s *BookService) CreateBook(ctx context.Context, fields domain.BookFields) (*domain.Book, error) {
	if err := s.validator.Validate(fields); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	book := domain.NewBook(uuid.NewString(), fields)
	if err := s.store.InsertBook(ctx, book); err != nil {
		if domainerrors.Is(err, store.ErrBookExists) {
			return nil, domainerrors.AlreadyExists("book already exists").WithCause(err)
		}
		s.logger.Error("failed to create book", "title", fields.Title, "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create book")
	}

	s.logger.Info("book created", "id", book.ID, "genre", book.Genre)
	return book, nil
}

// Populate replaces the whole collection with the sample catalog. Every
// record gets a fresh UUID, so repeated calls always leave exactly the
// catalog's books behind.
func (s *BookService) Populate(ctx context.Context) (*PopulateResult, error) {
	entries, err := catalog.Books()
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load sample catalog")
	}

	books := make([]*domain.Book, 0, len(entries))
	for _, fields := range entries {
		books = append(books, domain.NewBook(uuid.NewString(), fields))
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.store.ReplaceBooks(ctx, books)
	metrics.RecordStoreOperation("replace_books", time.Since(start), err)
	if err != nil {
		s.logger.Error("failed to populate sample books", "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to populate sample books")
	}

	s.logger.Info("sample books populated", "count", n)
	return &PopulateResult{
		Message:       fmt.Sprintf("Successfully populated %d sample books", n),
		InsertedCount: n,
	}, nil
}

// SeedIfEmpty populates the catalog only when the collection has no books.
// It reports whether it seeded.
func (s *BookService) SeedIfEmpty(ctx context.Context) (bool, error) {
	n, err := s.countBooks(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.logger.Debug("collection already populated, skipping seed", "count", n)
		return false, nil
	}

	if _, err := s.Populate(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *BookService) countBooks(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	n, err := s.store.CountBooks(ctx)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to count books")
	}
	return n, nil
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
