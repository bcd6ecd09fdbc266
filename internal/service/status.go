package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/booklyapp/bookly-server/internal/domain"
	domainerrors "github.com/booklyapp/bookly-server/internal/errors"
	"github.com/booklyapp/bookly-server/internal/id"
	"github.com/booklyapp/bookly-server/internal/store"
)

// MaxStatusChecks caps ListStatusChecks.
const MaxStatusChecks = 1000

// StatusService records client status checks.
type StatusService struct {
	store        store.BookStore
	logger       *slog.Logger
	queryTimeout time.Duration
	now          func() time.Time
}

// NewStatusService creates a new status service.
func NewStatusService(s store.BookStore, logger *slog.Logger, queryTimeout time.Duration) *StatusService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusService{
		store:        s,
		logger:       logger,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

// CreateStatusCheck stores a check for clientName stamped with the current UTC time.
func (s *StatusService) CreateStatusCheck(ctx context.Context, clientName string) (*domain.StatusCheck, error) {
	checkID, err := id.Generate(id.PrefixStatusCheck)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate status check id")
	}

	check := &domain.StatusCheck{
		ID:         checkID,
		ClientName: clientName,
		Timestamp:  s.now().UTC(),
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.store.InsertStatusCheck(ctx, check); err != nil {
		s.logger.Error("failed to record status check", "client_name", clientName, "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to record status check")
	}
	return check, nil
}

// ListStatusChecks returns up to MaxStatusChecks checks, oldest first.
func (s *StatusService) ListStatusChecks(ctx context.Context) ([]*domain.StatusCheck, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	checks, err := s.store.ListStatusChecks(ctx, MaxStatusChecks)
	if err != nil {
		s.logger.Error("failed to list status checks", "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list status checks")
	}
	return checks, nil
}
