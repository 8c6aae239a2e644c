package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/nstehr/vimy/vimy-viewer/model"
)

// Client issues the queries the viewer needs from the simulation server.
// Implementations must be safe for use from multiple goroutines.
type Client interface {
	ListObjects(ctx context.Context) ([]model.ObjectSummary, error)
	DescribeObject(ctx context.Context, name string) (model.SimulatedObject, error)
	ServerInfo(ctx context.Context) (model.ServerInfo, error)
	WorldBounds(ctx context.Context) (model.WorldBounds, error)
	Close() error
}

const (
	TransportHTTP      = "http"
	TransportWebSocket = "ws"
)

// New builds a client for the named transport.
func New(transport, endpoint string, codec model.Codec, timeout time.Duration) (Client, error) {
	switch transport {
	case "", TransportHTTP:
		return NewHTTPClient(endpoint, codec, timeout)
	case TransportWebSocket:
		return NewWSClient(endpoint, timeout)
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}
