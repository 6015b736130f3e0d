package grpc

import (
	"fmt"
	"net"
	"sort"
	"sync"

	"go.uber.org/zap"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// BoardService is the health service name covering every bound guild.
const BoardService = "status_board"

// GuildService returns the health service name of a single guild's board.
func GuildService(guildID string) string {
	return "guild/" + guildID
}

// HealthServer exposes the standard gRPC health protocol. Each guild's board reports SERVING
// after a successful refresh and NOT_SERVING while its binding is stale; BoardService is
// NOT_SERVING while any guild is failing.
type HealthServer struct {
	server  *grpc.Server
	health  *health.Server
	address string
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	failing  map[string]bool
}

// NewHealthServer creates a health server that will listen on address.
func NewHealthServer(address string, logger *zap.Logger) *HealthServer {
	hs := health.NewServer()
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(BoardService, healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{
		server:  srv,
		health:  hs,
		address: address,
		logger:  logger,
		failing: make(map[string]bool),
	}
}

// Start begins serving in the background.
func (h *HealthServer) Start() error {
	lis, err := net.Listen("tcp", h.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.address, err)
	}

	h.mu.Lock()
	h.listener = lis
	h.mu.Unlock()

	go func() {
		if err := h.server.Serve(lis); err != nil {
			h.logger.Error("health server stopped", zap.Error(err))
		}
	}()
	h.logger.Info("health server listening", zap.String("address", lis.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (h *HealthServer) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// ReportRefresh records the outcome of a refresh for a guild.
func (h *HealthServer) ReportRefresh(guildID string, err error) {
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus(GuildService(guildID), status)

	h.mu.Lock()
	if err != nil {
		h.failing[guildID] = true
	} else {
		delete(h.failing, guildID)
	}
	overall := healthpb.HealthCheckResponse_SERVING
	if len(h.failing) > 0 {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus(BoardService, overall)
	h.mu.Unlock()
}

// Failing returns the guilds whose last refresh failed, sorted.
func (h *HealthServer) Failing() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.failing))
	for id := range h.failing {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stop marks every service NOT_SERVING and stops the server.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
