package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nstehr/vimy/vimy-viewer/model"
)

// WSClient issues request/reply envelopes over one WebSocket connection.
// The socket is dialed lazily and redialed after any failure; requests are
// serialised so replies cannot interleave. Cancelling a request's context
// or calling Close unblocks a request waiting on the server.
type WSClient struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer

	// sem is a one-slot semaphore serialising requests. Waiting for it
	// honours ctx.
	sem chan struct{}

	mu   sync.Mutex // guards conn only; never held across I/O
	conn *websocket.Conn
}

func NewWSClient(endpoint string, timeout time.Duration) (*WSClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("empty websocket endpoint")
	}
	return &WSClient{
		url:     endpoint,
		timeout: timeout,
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout},
		sem:     make(chan struct{}, 1),
	}, nil
}

func (c *WSClient) ListObjects(ctx context.Context) ([]model.ObjectSummary, error) {
	data, err := c.request(ctx, "list objects", TypeListObjects, nil)
	if err != nil {
		return nil, err
	}
	objs, err := model.DecodeSummaries(model.JSON, data)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	return objs, nil
}

func (c *WSClient) DescribeObject(ctx context.Context, name string) (model.SimulatedObject, error) {
	data, err := c.request(ctx, "describe object", TypeDescribeObject, model.DetailRequest{Name: name})
	if err != nil {
		return model.SimulatedObject{}, err
	}
	obj, err := model.Decode[model.SimulatedObject](model.JSON, data)
	if err != nil {
		return model.SimulatedObject{}, fmt.Errorf("describe object: %w", err)
	}
	return obj, nil
}

func (c *WSClient) ServerInfo(ctx context.Context) (model.ServerInfo, error) {
	data, err := c.request(ctx, "server info", TypeServerInfo, nil)
	if err != nil {
		return model.ServerInfo{}, err
	}
	info, err := model.Decode[model.ServerInfo](model.JSON, data)
	if err != nil {
		return model.ServerInfo{}, fmt.Errorf("server info: %w", err)
	}
	return info, nil
}

func (c *WSClient) WorldBounds(ctx context.Context) (model.WorldBounds, error) {
	data, err := c.request(ctx, "world bounds", TypeWorldBounds, nil)
	if err != nil {
		return model.WorldBounds{}, err
	}
	bounds, err := model.Decode[model.WorldBounds](model.JSON, data)
	if err != nil {
		return model.WorldBounds{}, fmt.Errorf("world bounds: %w", err)
	}
	return bounds, nil
}

// Close drops the connection without waiting for a request in flight; that
// request fails promptly. A later request dials again.
func (c *WSClient) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (c *WSClient) request(ctx context.Context, op, msgType string, payload any) (json.RawMessage, error) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, &TransportError{Op: op, Endpoint: c.url, Err: ctx.Err()}
	}
	defer func() { <-c.sem }()

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, &TransportError{Op: op, Endpoint: c.url, Err: err}
	}

	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// gorilla/websocket has no context support; map the context onto
	// socket deadlines instead, and expire them early on cancellation.
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)
	stop := context.AfterFunc(ctx, func() {
		now := time.Now()
		_ = conn.SetWriteDeadline(now)
		_ = conn.SetReadDeadline(now)
	})
	defer stop()

	fail := func(err error) error {
		c.drop(conn)
		if cerr := ctx.Err(); cerr != nil {
			err = fmt.Errorf("%w: %v", cerr, err)
		}
		return &TransportError{Op: op, Endpoint: c.url, Err: err}
	}

	if err := WriteEnvelope(conn, env); err != nil {
		return nil, fail(err)
	}

	for {
		reply, err := ReadEnvelope(conn)
		if err != nil {
			return nil, fail(err)
		}
		switch reply.Type {
		case msgType:
			return reply.Data, nil
		case TypeError:
			return nil, &TransportError{Op: op, Endpoint: c.url, Err: fmt.Errorf("server error: %s", errorText(reply.Data))}
		default:
			slog.Warn("ignoring unexpected envelope", "op", op, "type", reply.Type)
		}
	}
}

// errorText extracts the message of an error envelope, falling back to the
// raw payload when it is not an ErrorMessage.
func errorText(data json.RawMessage) string {
	var msg ErrorMessage
	if err := json.Unmarshal(data, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	if len(data) == 0 {
		return "(no message)"
	}
	return string(data)
}

// connect returns the open connection, dialing one if needed. Callers hold
// sem.
func (c *WSClient) connect(ctx context.Context) (*websocket.Conn, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return conn, nil
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	conn.SetReadLimit(maxFrameSize)
	slog.Info("websocket connected", "endpoint", c.url)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return conn, nil
}

// drop closes conn and forgets it if it is still the current connection.
func (c *WSClient) drop(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}
