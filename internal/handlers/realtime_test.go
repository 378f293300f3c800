package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/realtime"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/gorilla/websocket"
)

type frame struct {
	Command   string          `json:"command"`
	Data      json.RawMessage `json:"data"`
	ErrorCode uint            `json:"error_code"`
}

func startRealtime(t *testing.T, hb config.WebsocketHeartbeatConfig) (*httptest.Server, *realtime.Hub, *RealtimeHandler) {
	t.Helper()
	cfg := &config.Config{Heartbeat: hb}
	hub := realtime.NewHub(16)
	h := NewRealtimeHandler(cfg, hub)
	srv := httptest.NewServer(http.HandlerFunc(h.InitialiseWebsocket))
	t.Cleanup(func() {
		h.CloseAll()
		srv.Close()
		hub.Close()
	})
	return srv, hub, h
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime?" + query
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	var f frame
	if err := ws.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	return f
}

var quietHeartbeat = config.WebsocketHeartbeatConfig{
	CheckInterval: time.Hour,
	Delay:         time.Hour,
	Interval:      time.Hour,
	KillDelay:     time.Hour,
}

func TestRealtime_StreamsMatchingEvents(t *testing.T) {
	srv, hub, h := startRealtime(t, quietHeartbeat)
	ws := dial(t, srv, "table=submissions&session_id=s1&event=INSERT")

	if f := readFrame(t, ws); f.Command != "subscribed" {
		t.Fatalf("first frame = %+v", f)
	}
	if h.Connections() != 1 {
		t.Errorf("Connections() = %d", h.Connections())
	}

	other, _ := realtime.NewEvent(realtime.Insert, realtime.Submissions, "s2", models.Submission{ID: "x"})
	hub.Publish(other)
	want, _ := realtime.NewEvent(realtime.Insert, realtime.Submissions, "s1", models.Submission{ID: "a", SelectedFactor: "Wore Suit"})
	hub.Publish(want)

	f := readFrame(t, ws)
	if f.Command != "event" {
		t.Fatalf("frame = %+v", f)
	}
	var ev realtime.Event
	if err := json.Unmarshal(f.Data, &ev); err != nil {
		t.Fatal(err)
	}
	sub, err := realtime.Decode[models.Submission](ev)
	if err != nil {
		t.Fatal(err)
	}
	if ev.SessionID != "s1" || sub.ID != "a" {
		t.Errorf("got %+v / %+v, want the s1 insert", ev, sub)
	}
}

func TestRealtime_AnswersPingAndRejectsUnknownCommands(t *testing.T) {
	srv, _, _ := startRealtime(t, quietHeartbeat)
	ws := dial(t, srv, "")
	readFrame(t, ws)

	ws.WriteJSON(map[string]string{"command": "ping"})
	if f := readFrame(t, ws); f.Command != "pong" {
		t.Errorf("ping answered with %+v", f)
	}
	ws.WriteJSON(map[string]string{"command": "dance"})
	if f := readFrame(t, ws); f.Command != "error" || f.ErrorCode != ErrCodeUnknownCommand {
		t.Errorf("unknown command answered with %+v", f)
	}
}

func TestRealtime_Heartbeat(t *testing.T) {
	srv, _, h := startRealtime(t, config.WebsocketHeartbeatConfig{
		CheckInterval: 10 * time.Millisecond,
		Delay:         20 * time.Millisecond,
		Interval:      20 * time.Millisecond,
		KillDelay:     200 * time.Millisecond,
	})
	ws := dial(t, srv, "")
	readFrame(t, ws)

	if f := readFrame(t, ws); f.Command != "ping" {
		t.Fatalf("expected ping, got %+v", f)
	}

	// stay silent until the server gives up
	for {
		ws.SetReadDeadline(time.Now().Add(3 * time.Second))
		var f frame
		if err := ws.ReadJSON(&f); err != nil {
			break
		}
		if f.Command == "error" && f.ErrorCode != ErrCodeHeartbeatMissed {
			t.Errorf("unexpected error frame %+v", f)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.Connections() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.Connections() != 0 {
		t.Errorf("Connections() = %d after kill", h.Connections())
	}
}

func TestRealtime_RejectsBadFilter(t *testing.T) {
	srv, _, _ := startRealtime(t, quietHeartbeat)

	for _, q := range []string{"table=users", "event=DELETE"} {
		resp, err := http.Get(srv.URL + "/realtime?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d", q, resp.StatusCode)
		}
	}
}

func TestRealtime_CloseAll(t *testing.T) {
	srv, hub, h := startRealtime(t, quietHeartbeat)
	ws := dial(t, srv, "")
	readFrame(t, ws)

	h.CloseAll()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Error("connection still open after CloseAll")
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after close", hub.Subscribers())
	}
}
