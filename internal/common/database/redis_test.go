package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-dispatcher/internal/common/config"
)

func TestNewRedis_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.GetClient())
}

func TestNewRedis_EmptyAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestPing_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}
