package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/booklyapp/bookly-server/internal/domain"
	"github.com/booklyapp/bookly-server/internal/logger"
	"github.com/booklyapp/bookly-server/internal/store"
)

var errStoreDown = errors.New("store is down")

// failingStore fails every call that reaches it. Methods not overridden
// panic through the nil embedded interface, which keeps the tests honest
// about what each service touches.
type failingStore struct {
	store.BookStore
}

func (failingStore) BooksByGenre(context.Context, string) ([]store.Document, error) {
	return nil, errStoreDown
}

func (failingStore) AllBooks(context.Context) ([]store.Document, error) {
	return nil, errStoreDown
}

func (failingStore) GetBook(context.Context, string) (*domain.Book, error) {
	return nil, errStoreDown
}

func (failingStore) InsertBook(context.Context, *domain.Book) error {
	return errStoreDown
}

func (failingStore) ReplaceBooks(context.Context, []*domain.Book) (int, error) {
	return 0, errStoreDown
}

func (failingStore) CountBooks(context.Context) (int, error) {
	return 0, errStoreDown
}

func (failingStore) InsertStatusCheck(context.Context, *domain.StatusCheck) error {
	return errStoreDown
}

func (failingStore) ListStatusChecks(context.Context, int) ([]*domain.StatusCheck, error) {
	return nil, errStoreDown
}

// setupTestStore opens an in-memory Badger store closed at test end.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewInMemory(nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck // Test cleanup
	return s
}

// populatedStore returns a store holding the sample catalog.
func populatedStore(t *testing.T) *store.Store {
	t.Helper()
	s := setupTestStore(t)
	_, err := NewBookService(s, nil, logger.Nop().Logger, 0).Populate(context.Background())
	require.NoError(t, err)
	return s
}

func titles(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}
