package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/booklyapp/bookly-server/internal/errors"
	"github.com/booklyapp/bookly-server/internal/id"
	"github.com/booklyapp/bookly-server/internal/logger"
)

func TestStatusService_CreateAndList(t *testing.T) {
	svc := NewStatusService(setupTestStore(t), logger.Nop().Logger, time.Second)
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	first, err := svc.CreateStatusCheck(ctx, "ios-app")
	require.NoError(t, err)
	assert.True(t, id.HasPrefix(first.ID, id.PrefixStatusCheck))
	assert.Equal(t, time.UTC, first.Timestamp.Location())
	assert.True(t, fixed.Equal(first.Timestamp))

	_, err = svc.CreateStatusCheck(ctx, "web")
	require.NoError(t, err)

	checks, err := svc.ListStatusChecks(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, "ios-app", checks[0].ClientName)
	assert.Equal(t, "web", checks[1].ClientName)
}

func TestStatusService_StoreFailure(t *testing.T) {
	svc := NewStatusService(failingStore{}, logger.Nop().Logger, time.Second)

	_, err := svc.CreateStatusCheck(context.Background(), "ios-app")
	assert.ErrorIs(t, err, domainerrors.ErrInternal)

	_, err = svc.ListStatusChecks(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
}
