package pubsub_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/okrahel/venue_flow/internal/adapter/pubsub"
	"github.com/okrahel/venue_flow/internal/core/domain"
	"github.com/okrahel/venue_flow/internal/core/ports/mocks"
)

const tenant = "blue-note"

func TestCreatePublishesChange(t *testing.T) {
	repo := mocks.NewEntityRepository(t)
	rdb, mockRedis := redismock.NewClientMock()
	store := pubsub.NewStore(repo, rdb, zap.NewNop())
	ctx := context.Background()

	payload := map[string]interface{}{domain.FieldTitle: "Imagine"}
	repo.On("Create", ctx, tenant, domain.KindQueueItem, domain.QueueQueued, payload).Return("id-1", nil)
	mockRedis.ExpectPublish("changes:blue-note:queue_item", "changed").SetVal(1)

	id, err := store.Create(ctx, tenant, domain.KindQueueItem, domain.QueueQueued, payload)

	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestUpdatePublishesChange(t *testing.T) {
	repo := mocks.NewEntityRepository(t)
	rdb, mockRedis := redismock.NewClientMock()
	store := pubsub.NewStore(repo, rdb, zap.NewNop())
	ctx := context.Background()

	fields := map[string]interface{}{"status": domain.QueuePlaying}
	repo.On("Update", ctx, tenant, domain.KindQueueItem, "id-1", fields).Return(nil)
	mockRedis.ExpectPublish("changes:blue-note:queue_item", "changed").SetVal(1)

	err := store.Update(ctx, tenant, domain.KindQueueItem, "id-1", fields)

	require.NoError(t, err)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRemovePublishesChange(t *testing.T) {
	repo := mocks.NewEntityRepository(t)
	rdb, mockRedis := redismock.NewClientMock()
	store := pubsub.NewStore(repo, rdb, zap.NewNop())
	ctx := context.Background()

	repo.On("Remove", ctx, tenant, domain.KindAuctionItem, "id-1").Return(nil)
	mockRedis.ExpectPublish("changes:blue-note:auction_item", "changed").SetVal(1)

	err := store.Remove(ctx, tenant, domain.KindAuctionItem, "id-1")

	require.NoError(t, err)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

// A failed write publishes nothing: subscribers only hear about changes that
// actually landed.
func TestFailedWriteDoesNotPublish(t *testing.T) {
	repo := mocks.NewEntityRepository(t)
	rdb, mockRedis := redismock.NewClientMock()
	store := pubsub.NewStore(repo, rdb, zap.NewNop())
	ctx := context.Background()

	fields := map[string]interface{}{"status": domain.QueuePlaying}
	repo.On("Update", ctx, tenant, domain.KindQueueItem, "id-1", fields).Return(errors.New("connection reset"))

	err := store.Update(ctx, tenant, domain.KindQueueItem, "id-1", fields)

	require.Error(t, err)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

// Publish failures stay best-effort: the write itself still succeeds.
func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	repo := mocks.NewEntityRepository(t)
	rdb, mockRedis := redismock.NewClientMock()
	store := pubsub.NewStore(repo, rdb, zap.NewNop())
	ctx := context.Background()

	fields := map[string]interface{}{"status": domain.QueuePlaying}
	repo.On("Update", ctx, tenant, domain.KindQueueItem, "id-1", fields).Return(nil)
	mockRedis.ExpectPublish("changes:blue-note:queue_item", "changed").SetErr(errors.New("redis down"))

	err := store.Update(ctx, tenant, domain.KindQueueItem, "id-1", fields)

	assert.NoError(t, err)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}
