package dedup

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-dispatcher/internal/common/errors"
)

func newMiniredisGuard(t *testing.T) (*Guard, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewGuard(client, time.Hour, "call-report:"), mr
}

func TestFirstDelivery_SecondIsDuplicate(t *testing.T) {
	guard, mr := newMiniredisGuard(t)
	ctx := context.Background()

	first, err := guard.FirstDelivery(ctx, "call-123")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := guard.FirstDelivery(ctx, "call-123")
	require.NoError(t, err)
	assert.False(t, second)

	other, err := guard.FirstDelivery(ctx, "call-456")
	require.NoError(t, err)
	assert.True(t, other)

	assert.True(t, mr.Exists("call-report:call-123"))
	assert.Equal(t, time.Hour, mr.TTL("call-report:call-123"))
}

func TestFirstDelivery_ExpiresAfterTTL(t *testing.T) {
	guard, mr := newMiniredisGuard(t)
	ctx := context.Background()

	_, err := guard.FirstDelivery(ctx, "call-123")
	require.NoError(t, err)

	mr.FastForward(time.Hour + time.Second)

	again, err := guard.FirstDelivery(ctx, "call-123")
	require.NoError(t, err)
	assert.True(t, again)
}

func TestForget(t *testing.T) {
	guard, mr := newMiniredisGuard(t)
	ctx := context.Background()

	_, err := guard.FirstDelivery(ctx, "call-123")
	require.NoError(t, err)
	require.NoError(t, guard.Forget(ctx, "call-123"))
	assert.False(t, mr.Exists("call-report:call-123"))
}

func TestFirstDelivery_FailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	guard := NewGuard(client, time.Minute, "call-report:")

	mock.Regexp().ExpectSetNX("call-report:call-123", `.+`, time.Minute).SetErr(stderrors.New("connection refused"))

	first, err := guard.FirstDelivery(context.Background(), "call-123")
	assert.True(t, first)
	require.Error(t, err)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeDedupCheckFailed, stdErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirstDelivery_DuplicateFromRedis(t *testing.T) {
	client, mock := redismock.NewClientMock()
	guard := NewGuard(client, time.Minute, "p:")

	mock.Regexp().ExpectSetNX("p:call-9", `.+`, time.Minute).SetVal(false)

	first, err := guard.FirstDelivery(context.Background(), "call-9")
	require.NoError(t, err)
	assert.False(t, first)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirstDelivery_Disabled(t *testing.T) {
	var nilGuard *Guard
	ok, err := nilGuard.FirstDelivery(context.Background(), "call-1")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, nilGuard.Forget(context.Background(), "call-1"))

	guard, _ := newMiniredisGuard(t)
	ok, err = guard.FirstDelivery(context.Background(), "")
	assert.True(t, ok)
	assert.NoError(t, err)
}
