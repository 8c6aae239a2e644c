package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nstehr/vimy/vimy-viewer/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// feedHandler answers every request envelope like a simulation server would.
func feedHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			env, err := ReadEnvelope(conn)
			if err != nil {
				return
			}
			var reply Envelope
			switch env.Type {
			case TypeListObjects:
				// An unsolicited envelope first; the client must skip it.
				notice, _ := NewEnvelope("notice", map[string]string{"msg": "hi"})
				WriteEnvelope(conn, notice)
				reply, _ = NewEnvelope(TypeListObjects, []model.ObjectSummary{
					{Name: "A", Owner: "P1", X: 10, Y: 20, Kind: model.KindHarvester},
				})
			case TypeDescribeObject:
				var req model.DetailRequest
				json.Unmarshal(env.Data, &req)
				if req.Name != "A" {
					reply, _ = NewEnvelope(TypeError, ErrorMessage{Message: "no such object"})
					break
				}
				reply, _ = NewEnvelope(TypeDescribeObject, model.SimulatedObject{Name: "A", Kind: model.KindBuilder})
			case TypeServerInfo:
				reply, _ = NewEnvelope(TypeServerInfo, model.ServerInfo{Name: "alpha", Status: "ok", TPS: 10})
			case TypeWorldBounds:
				reply, _ = NewEnvelope(TypeWorldBounds, model.WorldBounds{Width: 500, Height: 400})
			}
			if err := WriteEnvelope(conn, reply); err != nil {
				return
			}
		}
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSClientRequests(t *testing.T) {
	srv := httptest.NewServer(feedHandler(t))
	defer srv.Close()

	c, err := NewWSClient(wsURL(srv), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	objs, err := c.ListObjects(ctx)
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(objs) != 1 || objs[0].Name != "A" {
		t.Errorf("objects = %+v", objs)
	}

	obj, err := c.DescribeObject(ctx, "A")
	if err != nil || obj.Kind != model.KindBuilder {
		t.Errorf("DescribeObject() = %+v, %v", obj, err)
	}

	if _, err := c.DescribeObject(ctx, "B"); err == nil || !strings.Contains(err.Error(), "no such object") {
		t.Errorf("DescribeObject(B) error = %v, want server error", err)
	}

	info, err := c.ServerInfo(ctx)
	if err != nil || info.TPS != 10 {
		t.Errorf("ServerInfo() = %+v, %v", info, err)
	}
	bounds, err := c.WorldBounds(ctx)
	if err != nil || bounds.Width != 500 {
		t.Errorf("WorldBounds() = %+v, %v", bounds, err)
	}
}

func TestWSClientRedialsAfterClose(t *testing.T) {
	srv := httptest.NewServer(feedHandler(t))
	defer srv.Close()

	c, _ := NewWSClient(wsURL(srv), time.Second)
	if _, err := c.ListObjects(context.Background()); err != nil {
		t.Fatalf("first ListObjects: %v", err)
	}
	c.Close()
	if _, err := c.ListObjects(context.Background()); err != nil {
		t.Fatalf("ListObjects after Close: %v", err)
	}
	c.Close()
}

func TestWSClientDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	c, _ := NewWSClient(url, 200*time.Millisecond)
	_, err := c.ListObjects(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("error = %v, want *TransportError", err)
	}
}

func TestEnvelopeNilData(t *testing.T) {
	env, err := NewEnvelope(TypeServerInfo, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(env)
	if string(b) != `{"type":"server_info"}` {
		t.Errorf("envelope = %s", b)
	}
}

// silentHandler reads requests and never answers until release is closed.
func silentHandler(t *testing.T, release <-chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		if _, err := ReadEnvelope(conn); err != nil {
			return
		}
		<-release
	}
}

func TestWSClientCancelUnblocksRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(silentHandler(t, release))
	defer srv.Close()
	defer close(release)

	c, _ := NewWSClient(wsURL(srv), 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := c.ListObjects(ctx)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ListObjects returned after %v, want prompt return on cancel", elapsed)
	}
	var te *TransportError
	if !errors.As(err, &te) || !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want TransportError wrapping context.Canceled", err)
	}

	start = time.Now()
	c.Close()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Close took %v", elapsed)
	}
}

func TestWSClientCloseDoesNotWaitForRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(silentHandler(t, release))
	defer srv.Close()
	defer close(release)

	c, _ := NewWSClient(wsURL(srv), 5*time.Second)
	done := make(chan error, 1)
	go func() {
		_, err := c.ListObjects(context.Background())
		done <- err
	}()

	// Let the request reach the server before closing.
	time.Sleep(100 * time.Millisecond)
	start := time.Now()
	c.Close()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Close blocked for %v", elapsed)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Error("request succeeded on a closed connection")
		}
	case <-time.After(time.Second):
		t.Fatal("request still blocked after Close")
	}
}

func TestWSClientMalformedErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		if _, err := ReadEnvelope(conn); err != nil {
			return
		}
		WriteEnvelope(conn, Envelope{Type: TypeError, Data: json.RawMessage(`"database on fire"`)})
	}))
	defer srv.Close()

	c, _ := NewWSClient(wsURL(srv), time.Second)
	defer c.Close()
	_, err := c.ServerInfo(context.Background())
	if err == nil || !strings.Contains(err.Error(), "database on fire") {
		t.Errorf("error = %v, want the raw server message", err)
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		data json.RawMessage
		want string
	}{
		{json.RawMessage(`{"message":"no such object"}`), "no such object"},
		{json.RawMessage(`"plain"`), `"plain"`},
		{json.RawMessage(`{"code":7}`), `{"code":7}`},
		{nil, "(no message)"},
	}
	for _, tt := range tests {
		if got := errorText(tt.data); got != tt.want {
			t.Errorf("errorText(%s) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
