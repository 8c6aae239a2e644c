package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nstehr/vimy/vimy-viewer/model"
)

// HTTPClient talks to the REST surface of the simulation server.
type HTTPClient struct {
	base  *url.URL
	codec model.Codec
	http  *http.Client
}

func NewHTTPClient(endpoint string, codec model.Codec, timeout time.Duration) (*HTTPClient, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q: scheme must be http or https", endpoint)
	}
	if codec == nil {
		codec = model.JSON
	}
	return &HTTPClient{
		base:  base,
		codec: codec,
		http:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) ListObjects(ctx context.Context) ([]model.ObjectSummary, error) {
	body, codec, err := c.do(ctx, "list objects", http.MethodGet, PathObjects, nil)
	if err != nil {
		return nil, err
	}
	objs, err := model.DecodeSummaries(codec, body)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	return objs, nil
}

func (c *HTTPClient) DescribeObject(ctx context.Context, name string) (model.SimulatedObject, error) {
	body, codec, err := c.do(ctx, "describe object", http.MethodPost, PathObject, model.DetailRequest{Name: name})
	if err != nil {
		return model.SimulatedObject{}, err
	}
	obj, err := model.Decode[model.SimulatedObject](codec, body)
	if err != nil {
		return model.SimulatedObject{}, fmt.Errorf("describe object: %w", err)
	}
	return obj, nil
}

func (c *HTTPClient) ServerInfo(ctx context.Context) (model.ServerInfo, error) {
	body, codec, err := c.do(ctx, "server info", http.MethodGet, PathInfo, nil)
	if err != nil {
		return model.ServerInfo{}, err
	}
	info, err := model.Decode[model.ServerInfo](codec, body)
	if err != nil {
		return model.ServerInfo{}, fmt.Errorf("server info: %w", err)
	}
	return info, nil
}

func (c *HTTPClient) WorldBounds(ctx context.Context) (model.WorldBounds, error) {
	body, codec, err := c.do(ctx, "world bounds", http.MethodGet, PathWorld, nil)
	if err != nil {
		return model.WorldBounds{}, err
	}
	bounds, err := model.Decode[model.WorldBounds](codec, body)
	if err != nil {
		return model.WorldBounds{}, fmt.Errorf("world bounds: %w", err)
	}
	return bounds, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one request and returns the body together with the codec that
// matches the response's Content-Type.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, payload any) ([]byte, model.Codec, error) {
	endpoint := c.base.JoinPath(path).String()

	var reqBody io.Reader
	if payload != nil {
		raw, err := c.codec.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", c.codec.ContentType())
	if payload != nil {
		req.Header.Set("Content-Type", c.codec.ContentType())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameSize+1))
	if err != nil {
		return nil, nil, &TransportError{Op: op, Endpoint: endpoint, Status: 0, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &TransportError{Op: op, Endpoint: endpoint, Status: resp.StatusCode}
	}
	if len(body) > maxFrameSize {
		return nil, nil, &TransportError{Op: op, Endpoint: endpoint, Err: fmt.Errorf("response exceeds %d bytes", maxFrameSize)}
	}

	codec := c.codec
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		codec = model.CodecFor(ct)
	}
	slog.Debug("request complete", "op", op, "endpoint", endpoint, "bytes", len(body), "codec", codec.ContentType())
	return body, codec, nil
}
