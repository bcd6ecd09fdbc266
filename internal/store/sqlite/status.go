package sqlite

import (
	"context"
	"fmt"

	"github.com/booklyapp/bookly-server/internal/domain"
)

// InsertStatusCheck appends a status check.
func (s *Store) InsertStatusCheck(ctx context.Context, check *domain.StatusCheck) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO status_checks (id, client_name, timestamp) VALUES (?, ?, ?)`,
		check.ID, check.ClientName, formatTime(check.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert status check: %w", err)
	}
	return nil
}

// ListStatusChecks returns up to limit status checks, oldest first.
func (s *Store) ListStatusChecks(ctx context.Context, limit int) ([]*domain.StatusCheck, error) {
	checks := []*domain.StatusCheck{}
	if limit <= 0 {
		return checks, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_name, timestamp FROM status_checks ORDER BY seq LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list status checks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c  domain.StatusCheck
			ts string
		)
		if err := rows.Scan(&c.ID, &c.ClientName, &ts); err != nil {
			return nil, fmt.Errorf("scan status check: %w", err)
		}
		if c.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("parse status check time: %w", err)
		}
		checks = append(checks, &c)
	}
	return checks, rows.Err()
}
