// Package service provides the business logic behind the Bookly API.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/booklyapp/bookly-server/internal/domain"
	domainerrors "github.com/booklyapp/bookly-server/internal/errors"
	"github.com/booklyapp/bookly-server/internal/metrics"
	"github.com/booklyapp/bookly-server/internal/recommend"
	"github.com/booklyapp/bookly-server/internal/store"
)

const tracerName = "bookly/service"

// RecommendationService answers mood/genre recommendation queries.
type RecommendationService struct {
	store        store.BookStore
	logger       *slog.Logger
	queryTimeout time.Duration
	tracer       trace.Tracer
}

// NewRecommendationService creates a new recommendation service.
// A zero queryTimeout leaves store calls bounded only by the caller's context.
func NewRecommendationService(s store.BookStore, logger *slog.Logger, queryTimeout time.Duration) *RecommendationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationService{
		store:        s,
		logger:       logger,
		queryTimeout: queryTimeout,
		tracer:       otel.Tracer(tracerName),
	}
}

// Recommend returns up to recommend.MaxResults books of genre ranked by how
// well their mood tags match mood, plus the number of matching books.
//
// Genre is compared case-insensitively and literally. Any mood or genre
// string is accepted; only store failures produce an error.
func (s *RecommendationService) Recommend(ctx context.Context, mood, genre string) (recommend.Result, error) {
	ctx, span := s.tracer.Start(ctx, "recommendation.recommend",
		trace.WithAttributes(
			attribute.String("query.genre", genre),
			attribute.String("query.mood", mood),
		),
	)
	defer span.End()

	docs, err := s.booksByGenre(ctx, genre)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store query failed")
		metrics.RecordRecommendation(0, err)
		s.logger.Error("recommendation query failed",
			"genre", genre,
			"error", err,
		)
		return recommend.Result{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load books")
	}
	span.SetAttributes(attribute.Int("genre.documents", len(docs)))

	if len(docs) == 0 {
		metrics.RecordRecommendation(0, nil)
		return recommend.Result{Books: []domain.Book{}}, nil
	}

	q := recommend.NewMood(mood)
	books := s.candidates(q, docs)
	result := recommend.Rank(q, books)

	span.SetAttributes(
		attribute.Int("result.total_matches", result.TotalMatches),
		attribute.Int("result.returned", len(result.Books)),
	)
	metrics.RecordRecommendation(result.TotalMatches, nil)

	return result, nil
}

func (s *RecommendationService) booksByGenre(ctx context.Context, genre string) ([]store.Document, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	docs, err := s.store.BooksByGenre(ctx, genre)
	metrics.RecordStoreOperation("books_by_genre", time.Since(start), err)
	return docs, err
}

// candidates applies the mood predicate to each document's raw tags and
// decodes the survivors. Candidates that are not well-formed books are
// logged and dropped.
func (s *RecommendationService) candidates(q recommend.Mood, docs []store.Document) []domain.Book {
	books := make([]domain.Book, 0, len(docs))
	for _, doc := range docs {
		if !q.Matches(recommend.ParseMoodTags(doc.MoodTags())) {
			continue
		}

		book, err := store.DecodeBook(doc)
		if err != nil {
			logMalformed(s.logger, doc, err)
			continue
		}
		books = append(books, *book)
	}
	return books
}

// logMalformed records a skipped document.
func logMalformed(logger *slog.Logger, doc store.Document, err error) {
	metrics.RecordMalformedDocument()
	logger.Warn("skipping malformed book document",
		"key", doc.Key,
		"error", err,
	)
}
