package remote

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Djoe-Denne/vocal-agent/internal/config"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
	"github.com/Djoe-Denne/vocal-agent/internal/logging"
)

// connectRetries and connectRetryInterval implement the system's only
// automatic retry: construction-time connection establishment for a
// remote stage client.
const (
	connectRetries      = 20
	connectRetryInterval = 50 * time.Millisecond
)

// endpointURI builds a dial target, choosing scheme by tls_enabled.
func endpointURI(cfg config.EndpointConfig) string {
	scheme := "dns"
	if cfg.TLSEnabled {
		scheme = "tls"
	}
	return fmt.Sprintf("%s:///%s:%d", scheme, cfg.Host, cfg.Port)
}

func connectTimeout(cfg config.EndpointConfig) time.Duration {
	ms := cfg.ConnectTimeoutMs
	if ms == 0 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

func requestTimeout(cfg config.EndpointConfig) time.Duration {
	ms := cfg.RequestTimeoutMs
	if ms == 0 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}

// connectWithRetry dials service's endpoint, retrying up to connectRetries
// times at connectRetryInterval before giving up. Each attempt is bounded
// by the endpoint's own connect_timeout.
func connectWithRetry(ctx context.Context, service string, cfg config.EndpointConfig) (*grpc.ClientConn, error) {
	var transportCreds credentials.TransportCredentials = insecure.NewCredentials()
	if cfg.TLSEnabled {
		transportCreds = credentials.NewTLS(nil)
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(transportCreds),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName)),
		grpc.WithBlock(),
	}
	if cfg.MaxDecodingMessageBytes > 0 {
		opts = append(opts, grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(cfg.MaxDecodingMessageBytes)))
	}
	if cfg.MaxEncodingMessageBytes > 0 {
		opts = append(opts, grpc.WithDefaultCallOptions(grpc.MaxCallSendMsgSize(cfg.MaxEncodingMessageBytes)))
	}

	target := endpointURI(cfg)
	timeout := connectTimeout(cfg)

	var lastErr error
	for attempt := 1; attempt <= connectRetries; attempt++ {
		dialCtx, cancel := context.WithTimeout(ctx, timeout)
		conn, err := grpc.DialContext(dialCtx, target, opts...)
		cancel()
		if err == nil {
			return conn, nil
		}
		lastErr = err
		logging.Warn("remote stage connect attempt failed", "service", service, "attempt", attempt, "error", err)
		if attempt < connectRetries {
			time.Sleep(connectRetryInterval)
		}
	}
	return nil, domainerr.ExternalServiceErrorf(service, "failed to connect: %v", lastErr)
}
