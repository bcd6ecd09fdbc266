package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Store is the Badger-backed BookStore.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// eventEmitter is told about every committed change.
	eventEmitter EventEmitter

	bookSeq   *badger.Sequence
	statusSeq *badger.Sequence
}

var _ BookStore = (*Store)(nil)

// New opens (or creates) a Badger database at path.
// The emitter is required; pass NewNoopEmitter() when nothing listens.
func New(path string, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk so a crash cannot lose acknowledged books
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	return open(opts, logger, emitter)
}

// NewInMemory opens a Badger database that lives only in memory.
func NewInMemory(logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger, emitter)
}

func open(opts badger.Options, logger *slog.Logger, emitter EventEmitter) (*Store, error) {
	if emitter == nil {
		emitter = NewNoopEmitter()
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	bookSeq, err := db.GetSequence([]byte(bookSequenceKey), sequenceLeaseBatch)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("book sequence: %w", err)
	}
	statusSeq, err := db.GetSequence([]byte(statusSequenceKey), sequenceLeaseBatch)
	if err != nil {
		bookSeq.Release() //nolint:errcheck // Already failing
		db.Close()
		return nil, fmt.Errorf("status sequence: %w", err)
	}

	s := &Store{
		db:           db,
		logger:       logger,
		eventEmitter: emitter,
		bookSeq:      bookSeq,
		statusSeq:    statusSeq,
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", opts.Dir, "in_memory", opts.InMemory)
	}

	return s, nil
}

// Close releases sequence leases and closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	if err := s.bookSeq.Release(); err != nil && s.logger != nil {
		s.logger.Warn("release book sequence", "error", err)
	}
	if err := s.statusSeq.Release(); err != nil && s.logger != nil {
		s.logger.Warn("release status sequence", "error", err)
	}
	return s.db.Close()
}

// Ping reports whether the database is open and readable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrClosed
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// nextSeqs leases n consecutive values from seq.
func nextSeqs(seq *badger.Sequence, n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := seq.Next()
		if err != nil {
			return nil, fmt.Errorf("next sequence: %w", err)
		}
		out[i] = v
	}
	return out, nil
}

// collectKeys returns copies of every key under prefix.
func collectKeys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}
