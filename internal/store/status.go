package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/booklyapp/bookly-server/internal/domain"
)

// InsertStatusCheck appends a status check.
func (s *Store) InsertStatusCheck(ctx context.Context, check *domain.StatusCheck) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(check)
	if err != nil {
		return fmt.Errorf("marshal status check: %w", err)
	}

	seq, err := s.statusSeq.Next()
	if err != nil {
		return fmt.Errorf("next status sequence: %w", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(statusCheckKey(seq), data)
	}); err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

// ListStatusChecks returns up to limit status checks, oldest first.
// A limit of zero or less returns none.
func (s *Store) ListStatusChecks(ctx context.Context, limit int) ([]*domain.StatusCheck, error) {
	checks := []*domain.StatusCheck{}
	if limit <= 0 {
		return checks, nil
	}

	prefix := []byte(statusCheckPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(checks) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var check domain.StatusCheck
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &check)
			}); err != nil {
				return fmt.Errorf("decode status check %s: %w", it.Item().Key(), err)
			}
			checks = append(checks, &check)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list status checks: %w", err)
	}
	return checks, nil
}
