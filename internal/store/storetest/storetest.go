// Package storetest holds the behavior suite every store.BookStore must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklyapp/bookly-server/internal/domain"
	"github.com/booklyapp/bookly-server/internal/store"
)

// Factory opens an empty store. The suite closes it.
type Factory func(t *testing.T) store.BookStore

// NewBook returns a well-formed book for tests.
func NewBook(id, title, genre, moods string) *domain.Book {
	return &domain.Book{
		ID:            id,
		Title:         title,
		Author:        "Author of " + title,
		Genre:         genre,
		MoodTags:      moods,
		Description:   "About " + title,
		CoverImageURL: "https://example.com/" + id + ".jpg",
	}
}

func open(t *testing.T, factory Factory) store.BookStore {
	t.Helper()
	s := factory(t)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck // Test cleanup
	return s
}

func keys(docs []store.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Key
	}
	return out
}

// Run exercises factory's store against the BookStore contract.
func Run(t *testing.T, factory Factory) {
	t.Run("InsertAndGet", func(t *testing.T) { testInsertAndGet(t, open(t, factory)) })
	t.Run("DuplicateID", func(t *testing.T) { testDuplicateID(t, open(t, factory)) })
	t.Run("BooksByGenre", func(t *testing.T) { testBooksByGenre(t, open(t, factory)) })
	t.Run("GenreIsLiteral", func(t *testing.T) { testGenreIsLiteral(t, open(t, factory)) })
	t.Run("MalformedDocuments", func(t *testing.T) { testMalformedDocuments(t, open(t, factory)) })
	t.Run("AllBooksOrder", func(t *testing.T) { testAllBooksOrder(t, open(t, factory)) })
	t.Run("ReplaceBooks", func(t *testing.T) { testReplaceBooks(t, open(t, factory)) })
	t.Run("StatusChecks", func(t *testing.T) { testStatusChecks(t, open(t, factory)) })
	t.Run("CanceledContext", func(t *testing.T) { testCanceledContext(t, open(t, factory)) })
}

func testInsertAndGet(t *testing.T, s store.BookStore) {
	ctx := context.Background()
	book := NewBook("b1", "The Hobbit", "Fantasy", "adventurous,whimsical")

	require.NoError(t, s.InsertBook(ctx, book))

	got, err := s.GetBook(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, book, got)

	_, err = s.GetBook(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrBookNotFound)

	n, err := s.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoError(t, s.Ping(ctx))
}

func testDuplicateID(t *testing.T, s store.BookStore) {
	ctx := context.Background()
	require.NoError(t, s.InsertBook(ctx, NewBook("dup", "One", "Fantasy", "epic")))

	err := s.InsertBook(ctx, NewBook("dup", "Two", "Fantasy", "epic"))
	assert.ErrorIs(t, err, store.ErrBookExists)

	got, err := s.GetBook(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "One", got.Title)
}

func testBooksByGenre(t *testing.T, s store.BookStore) {
	ctx := context.Background()
	require.NoError(t, s.InsertBook(ctx, NewBook("f1", "Hobbit", "Fantasy", "adventurous")))
	require.NoError(t, s.InsertBook(ctx, NewBook("t1", "Gone Girl", "Thriller", "dark")))
	require.NoError(t, s.InsertBook(ctx, NewBook("f2", "Earthsea", "FANTASY", "calm")))
	require.NoError(t, s.InsertBook(ctx, NewBook("f3", "Narnia", "fantasy", "whimsical")))

	docs, err := s.BooksByGenre(ctx, "fAnTaSy")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2", "f3"}, keys(docs))

	docs, err = s.BooksByGenre(ctx, "Horror")
	require.NoError(t, err)
	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func testGenreIsLiteral(t *testing.T, s store.BookStore) {
	ctx := context.Background()
	require.NoError(t, s.InsertBook(ctx, NewBook("f1", "Hobbit", "Fantasy", "adventurous")))
	require.NoError(t, s.InsertBook(ctx, NewBook("sf", "Dune", "Science Fiction", "epic")))
	require.NoError(t, s.InsertBook(ctx, NewBook("odd", "Odd", "Fan.*", "odd")))

	for _, g := range []string{"Fan", "Fantasy ", "Fan@#$tasy", ".*", "%", "Fan%", "Fantas_", "Science", "' OR 1=1 --", ""} {
		docs, err := s.BooksByGenre(ctx, g)
		require.NoError(t, err, g)
		assert.Empty(t, docs, "genre %q", g)
	}

	docs, err := s.BooksByGenre(ctx, "fan.*")
	require.NoError(t, err)
	assert.Equal(t, []string{"odd"}, keys(docs))
}

func testMalformedDocuments(t *testing.T, s store.BookStore) {
	ctx := context.Background()
	require.NoError(t, s.InsertBook(ctx, NewBook("good", "Hobbit", "Fantasy", "adventurous")))
	require.NoError(t, s.PutDocument(ctx, "bad-moods", []byte(`{"id":"bad-moods","title":"X","genre":"Fantasy","mood_tags":42}`)))
	require.NoError(t, s.PutDocument(ctx, "no-genre", []byte(`{"id":"no-genre","title":"Y","genre":7,"mood_tags":"epic"}`)))

	docs, err := s.BooksByGenre(ctx, "fantasy")
	require.NoError(t, err)
	require.Equal(t, []string{"good", "bad-moods"}, keys(docs))

	assert.Equal(t, "", docs[1].MoodTags())
	_, err = store.DecodeBook(docs[1])
	assert.ErrorIs(t, err, store.ErrMalformedDocument)

	all, err := s.AllBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"good", "bad-moods", "no-genre"}, keys(all))

	_, err = s.GetBook(ctx, "no-genre")
	assert.ErrorIs(t, err, store.ErrMalformedDocument)
}

func testAllBooksOrder(t *testing.T, s store.BookStore) {
	ctx := context.Background()

	docs, err := s.AllBooks(ctx)
	require.NoError(t, err)
	require.NotNil(t, docs)
	assert.Empty(t, docs)

	// IDs deliberately sort differently from insertion order.
	ids := []string{"zeta", "alpha", "mu", "beta"}
	for _, id := range ids {
		require.NoError(t, s.InsertBook(ctx, NewBook(id, id, "Fiction", "calm")))
	}

	docs, err = s.AllBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids, keys(docs))
}

func testReplaceBooks(t *testing.T, s store.BookStore) {
	ctx := context.Background()
	require.NoError(t, s.InsertBook(ctx, NewBook("old", "Old", "Fantasy", "epic")))

	batch := make([]*domain.Book, 0, 5)
	for i := range 5 {
		batch = append(batch, NewBook(fmt.Sprintf("new-%d", 4-i), "New", "Fantasy", "epic"))
	}

	for range 2 {
		n, err := s.ReplaceBooks(ctx, batch)
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		count, err := s.CountBooks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	}

	_, err := s.GetBook(ctx, "old")
	assert.ErrorIs(t, err, store.ErrBookNotFound)

	docs, err := s.BooksByGenre(ctx, "fantasy")
	require.NoError(t, err)
	assert.Equal(t, []string{"new-4", "new-3", "new-2", "new-1", "new-0"}, keys(docs))

	n, err := s.ReplaceBooks(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	docs, err = s.AllBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func testStatusChecks(t *testing.T, s store.BookStore) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := range 3 {
		require.NoError(t, s.InsertStatusCheck(ctx, &domain.StatusCheck{
			ID:         fmt.Sprintf("status-%d", i),
			ClientName: fmt.Sprintf("client-%d", i),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	checks, err := s.ListStatusChecks(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, checks, 3)
	for i, c := range checks {
		assert.Equal(t, fmt.Sprintf("status-%d", i), c.ID)
		assert.Equal(t, fmt.Sprintf("client-%d", i), c.ClientName)
		assert.True(t, base.Add(time.Duration(i)*time.Minute).Equal(c.Timestamp))
	}

	checks, err = s.ListStatusChecks(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, checks, 2)

	checks, err = s.ListStatusChecks(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, checks)
}

func testCanceledContext(t *testing.T, s store.BookStore) {
	require.NoError(t, s.InsertBook(context.Background(), NewBook("b", "B", "Fantasy", "epic")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.BooksByGenre(ctx, "Fantasy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
