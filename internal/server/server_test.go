package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/idle-backend/internal/content"
	"github.com/xtding233/idle-backend/internal/game"
	"github.com/xtding233/idle-backend/internal/session"
)

func newSession() *session.Session {
	return session.New(game.Normalize(game.RawConfig{}))
}

func TestHTTPInvokeAndView(t *testing.T) {
	srv := httptest.NewServer(NewHTTP(newSession(), nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/actions/j", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var ir invokeResp
	_ = json.NewDecoder(resp.Body).Decode(&ir)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !ir.Changed {
		t.Fatalf("invoke j = %d %+v", resp.StatusCode, ir)
	}

	resp, err = http.Get(srv.URL + "/v1/view")
	if err != nil {
		t.Fatalf("get view: %v", err)
	}
	var v content.View
	_ = json.NewDecoder(resp.Body).Decode(&v)
	resp.Body.Close()
	if v.Points != "0.00" || v.Layers[0].Resources[0].Value != "1" {
		t.Fatalf("view after reset: points=%q jacorb=%q", v.Points, v.Layers[0].Resources[0].Value)
	}
}

func TestHTTPUnknownActionIs404(t *testing.T) {
	srv := httptest.NewServer(NewHTTP(newSession(), nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/actions/nope", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var ir invokeResp
	_ = json.NewDecoder(resp.Body).Decode(&ir)
	if resp.StatusCode != http.StatusNotFound || ir.Err == "" {
		t.Fatalf("status=%d err=%q", resp.StatusCode, ir.Err)
	}
}

func TestHTTPTick(t *testing.T) {
	sess := newSession()
	srv := httptest.NewServer(NewHTTP(sess, nil))
	defer srv.Close()

	for _, q := range []string{"", "?seconds=abc", "?seconds=-1"} {
		resp, err := http.Post(srv.URL+"/v1/tick"+q, "application/json", nil)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("tick%s status = %d, want 400", q, resp.StatusCode)
		}
	}

	ctx := context.Background()
	_, _ = sess.Invoke(ctx, "j")
	_, _ = sess.Invoke(ctx, "upgrade:beginning")
	resp, err := http.Post(srv.URL+"/v1/tick?seconds=3", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if got := sess.View().Points; got != "3.00" {
		t.Fatalf("points = %q, want 3.00", got)
	}
}

func TestHTTPTickRejectsNonFinite(t *testing.T) {
	sess := newSession()
	srv := httptest.NewServer(NewHTTP(sess, nil))
	defer srv.Close()
	before := sess.View().Points

	for _, q := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "1e400"} {
		resp, err := http.Post(srv.URL+"/v1/tick?seconds="+q, "application/json", nil)
		if err != nil {
			t.Fatalf("post %s: %v", q, err)
		}
		var er errResp
		derr := json.NewDecoder(resp.Body).Decode(&er)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest || derr != nil || er.Err == "" {
			t.Fatalf("seconds=%s: status=%d err=%q decode=%v", q, resp.StatusCode, er.Err, derr)
		}
	}
	if got := sess.View().Points; got != before {
		t.Fatalf("points moved from %s to %s", before, got)
	}
}

func TestHTTPExportSave(t *testing.T) {
	srv := httptest.NewServer(NewHTTP(newSession(), nil))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/v1/save")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Fatalf("content type %q", ct)
	}
}

func dialGRPC(t *testing.T, sess *session.Session) GameClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := NewGRPC(sess)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewGameClient(conn)
}

func TestGRPCGame(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dialGRPC(t, newSession())

	changed, err := c.Invoke(ctx, wrapperspb.String("j"))
	if err != nil || !changed.GetValue() {
		t.Fatalf("invoke j = %v, %v", changed, err)
	}
	changed, err = c.Invoke(ctx, wrapperspb.String("j"))
	if err != nil || changed.GetValue() {
		t.Fatalf("second invoke j = %v, %v; want rejected", changed, err)
	}

	snap, err := c.Snapshot(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snap.GetFields()["points"].GetStringValue(); got != "0.00" {
		t.Fatalf("points = %q, want 0.00", got)
	}

	actions, err := c.Actions(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	if len(actions.GetValues()) != 8 {
		t.Fatalf("got %d actions, want 8", len(actions.GetValues()))
	}

	if _, err := c.Reset(ctx, &emptypb.Empty{}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snap, _ = c.Snapshot(ctx, &emptypb.Empty{})
	if got := snap.GetFields()["points"].GetStringValue(); got != "10.00" {
		t.Fatalf("points after reset = %q, want 10.00", got)
	}
}

func TestGRPCErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dialGRPC(t, newSession())

	_, err := c.Invoke(ctx, wrapperspb.String("nope"))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("unknown action code = %s, want NotFound", status.Code(err))
	}
	_, err = c.Invoke(ctx, wrapperspb.String(""))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("empty action code = %s, want InvalidArgument", status.Code(err))
	}
}

func TestHubBroadcastAndInvoke(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := newSession()
	hub := NewHub(InvokeHandler(sess))
	go func() { _ = hub.Run(ctx) }()
	srv := httptest.NewServer(NewHTTP(sess, hub))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(Message{Type: "invoke", Payload: "j"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply struct {
		Type    string     `json:"type"`
		Payload invokeResp `json:"payload"`
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Type != "result" || !reply.Payload.Changed {
		t.Fatalf("reply = %+v", reply)
	}

	// the client is registered once it has been answered
	hub.Publish(Message{Type: "view", Payload: sess.View()})
	var pushed struct {
		Type    string       `json:"type"`
		Payload content.View `json:"payload"`
	}
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("read push: %v", err)
	}
	if pushed.Type != "view" || pushed.Payload.Points != "0.00" {
		t.Fatalf("pushed = %s %q", pushed.Type, pushed.Payload.Points)
	}
}

func TestRunFramesPublishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := newSession()
	hub := NewHub(nil)
	go func() { _ = hub.Run(ctx) }()
	srv := httptest.NewServer(NewHTTP(sess, hub))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	done := make(chan error, 1)
	go func() { done <- RunFrames(ctx, sess, 10*time.Millisecond, hub) }()

	var m Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if m.Type != "view" {
		t.Fatalf("type = %q, want view", m.Type)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run frames: %v", err)
	}
	if sess.Params().FrameInterval == 0 {
		t.Fatalf("params not normalized")
	}
}
