// Package recognizer describes the speech engine that feeds recognized chunks:
// whether it spaces its own output, and whether its gRPC endpoint is reachable.
package recognizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/rbright/voxfield/internal/config"
	"github.com/rbright/voxfield/internal/textnorm"
)

// Readiness is the outcome of one endpoint probe.
type Readiness struct {
	Endpoint string
	// Health is the grpc.health.v1 status, or "unimplemented" when the server
	// does not expose the health service.
	Health  string
	Latency time.Duration
}

// Spacing reports whether the configured recognizer emits its own inter-chunk spaces.
func Spacing(cfg config.RecognizerConfig) textnorm.Spacing {
	return textnorm.StaticSpacing(cfg.AddsSpaces)
}

// Probe dials endpoint, waits for the connection to become ready, and asks
// the standard health service for overall status.
func Probe(ctx context.Context, endpoint string, timeout time.Duration) (Readiness, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return Readiness{}, errors.New("recognizer endpoint is empty")
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return Readiness{}, fmt.Errorf("dial recognizer grpc %q: %w", endpoint, err)
	}
	defer conn.Close()

	started := time.Now()
	readyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn.Connect()
	if err := waitForReady(readyCtx, conn); err != nil {
		return Readiness{}, fmt.Errorf("wait for recognizer grpc readiness: %w", err)
	}

	health, err := checkHealth(readyCtx, conn)
	if err != nil {
		return Readiness{}, err
	}
	return Readiness{Endpoint: endpoint, Health: health, Latency: time.Since(started)}, nil
}

// waitForReady blocks until the connection is Ready, shut down, or ctx ends.
func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection entered shutdown state")
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return fmt.Errorf("%w (last state %s)", ctx.Err(), state)
			}
			return fmt.Errorf("grpc readiness wait timed out in state %s", state)
		}
	}
}

func checkHealth(ctx context.Context, conn *grpc.ClientConn) (string, error) {
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		if status.Code(err) == codes.Unimplemented {
			return "unimplemented", nil
		}
		return "", fmt.Errorf("recognizer health check: %w", err)
	}

	serving := resp.GetStatus()
	if serving != healthpb.HealthCheckResponse_SERVING {
		return serving.String(), fmt.Errorf("recognizer health is %s", serving)
	}
	return serving.String(), nil
}
