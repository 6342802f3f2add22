package node

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type toggleConn struct{ open bool }

func (c *toggleConn) IsConnectionOpen() bool { return c.open }

func TestHealthServer_FollowsConnection(t *testing.T) {
	conn := &toggleConn{}
	h := NewHealthServer(conn, 0, nil)
	ctx := context.Background()

	st, err := h.Check(ctx, HealthServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, st)

	conn.open = true
	h.Refresh()
	for _, svc := range []string{"", HealthServiceName} {
		st, err = h.Check(ctx, svc)
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, st, svc)
	}

	_, err = h.Check(ctx, "unknown.service")
	assert.Error(t, err)
}
