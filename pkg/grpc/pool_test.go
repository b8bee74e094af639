package grpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/connectivity"
)

func TestGetConnection_Reuse(t *testing.T) {
	pool := NewPool()
	t.Cleanup(func() { _ = pool.Close() })

	a, err := pool.GetConnection("passthrough:///ledger-a")
	require.NoError(t, err)
	again, err := pool.GetConnection("passthrough:///ledger-a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	b, err := pool.GetConnection("passthrough:///ledger-b")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestGetConnection_ReplacesShutdown(t *testing.T) {
	pool := NewPool()
	t.Cleanup(func() { _ = pool.Close() })

	conn, err := pool.GetConnection("passthrough:///ledger")
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	assert.Equal(t, connectivity.Shutdown, conn.GetState())

	fresh, err := pool.GetConnection("passthrough:///ledger")
	require.NoError(t, err)
	assert.NotSame(t, conn, fresh)
}

func TestClose(t *testing.T) {
	pool := NewPool()
	conn, err := pool.GetConnection("passthrough:///ledger")
	require.NoError(t, err)

	require.NoError(t, pool.Close())
	assert.Equal(t, connectivity.Shutdown, conn.GetState())
	assert.Empty(t, pool.conns)
}
