package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{
			name:        "Reachable Redis",
			url:         "redis://" + mr.Addr(),
			expectError: false,
		},
		{
			name:        "Invalid URL",
			url:         "invalid://url",
			expectError: true,
		},
		{
			name:        "Empty URL",
			url:         "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", zap.NewNop())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, client.KeyBuilder)
				assert.NoError(t, client.Close())
			}
		})
	}
}

func TestClient_SetNX(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	ok, err := client.SetNX(ctx, "lock:a", "token-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "lock:a", "token-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while the key exists")

	val, err := mr.Get("lock:a")
	require.NoError(t, err)
	assert.Equal(t, "token-1", val)
	assert.Greater(t, mr.TTL("lock:a"), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	ok, err = client.SetNX(ctx, "lock:a", "token-3", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "expired key can be acquired again")
}

func TestClient_DeleteIfValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("lock:b", "owner"))

	removed, err := client.DeleteIfValue(ctx, "lock:b", "intruder")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.True(t, mr.Exists("lock:b"))

	removed, err = client.DeleteIfValue(ctx, "lock:b", "owner")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, mr.Exists("lock:b"))
}

func TestClient_Health(t *testing.T) {
	mr, client := setupTestRedis(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestPrefixForLog(t *testing.T) {
	assert.Equal(t, "short", prefixForLog("short"))
	assert.Equal(t, "prod:signup:lock:manual:…", prefixForLog("prod:signup:lock:manual:0123456789abcdef"))
}
