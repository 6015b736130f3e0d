package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func startHealth(t *testing.T) (*HealthServer, healthpb.HealthClient) {
	t.Helper()
	hs := NewHealthServer("127.0.0.1:0", zap.NewNop())
	require.NoError(t, hs.Start())
	t.Cleanup(hs.Stop)

	conn, err := grpc.NewClient(hs.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return hs, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthServer_ReportRefresh(t *testing.T) {
	hs, client := startHealth(t)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, BoardService))

	hs.ReportRefresh("g1", nil)
	hs.ReportRefresh("g2", errors.New("message gone"))

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, GuildService("g1")))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, GuildService("g2")))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, BoardService))
	assert.Equal(t, []string{"g2"}, hs.Failing())

	hs.ReportRefresh("g2", nil)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, BoardService))
	assert.Empty(t, hs.Failing())
}
