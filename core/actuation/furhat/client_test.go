package furhat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-thinking/core/decision"
	"go.uber.org/goleak"
)

type robotStub struct {
	server   *httptest.Server
	received chan map[string]any
	paths    chan string
}

// newRobotStub accepts one connection and records every request. When
// endSpeech is set each speak request is answered with response.speak.end.
func newRobotStub(t *testing.T, endSpeech bool) *robotStub {
	t.Helper()

	stub := &robotStub{
		received: make(chan map[string]any, 32),
		paths:    make(chan string, 1),
	}
	upgrader := websocket.Upgrader{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.paths <- r.URL.Path
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("failed to upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg map[string]any
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Errorf("robot received malformed message %q", data)
				continue
			}
			stub.received <- msg
			if endSpeech && msg["type"] == typeSpeakText {
				_ = conn.WriteJSON(map[string]string{"type": "response.speak.start"})
				_ = conn.WriteJSON(map[string]string{"type": typeSpeakEnd})
			}
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *robotStub) host() string {
	return strings.TrimPrefix(s.server.URL, "http://")
}

func (s *robotStub) next(t *testing.T) map[string]any {
	t.Helper()
	select {
	case msg := <-s.received:
		return msg
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for robot request")
		return nil
	}
}

func TestClientSendsRealtimeRequests(t *testing.T) {
	defer goleak.VerifyNone(t)

	robot := newRobotStub(t, false)
	ctx := context.Background()
	client, err := Dial(ctx, robot.host())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	if path := <-robot.paths; path != defaultPath {
		t.Fatalf("expected path %q, got %q", defaultPath, path)
	}

	steps := []struct {
		call func() error
		want map[string]any
	}{
		{
			call: func() error { return client.Speak(ctx, "Hello there.") },
			want: map[string]any{"type": typeSpeakText, "text": "Hello there.", "abort": false},
		},
		{
			call: func() error { return client.StartGesture(ctx, "Nod", 0.7, 0.6) },
			want: map[string]any{"type": typeGestureStart, "name": "Nod", "intensity": 0.7, "duration": 0.6},
		},
		{
			call: func() error { return client.SetLED(ctx, "#FFA500") },
			want: map[string]any{"type": typeLEDSet, "color": "#FFA500"},
		},
		{
			call: func() error { return client.AttendUser(ctx) },
			want: map[string]any{"type": typeAttendUser, "user_id": "closest"},
		},
		{
			call: func() error { return client.LookAt(ctx, 0.1, 0.2, 1.5) },
			want: map[string]any{"type": typeAttendLocation, "x": 0.1, "y": 0.2, "z": 1.5},
		},
	}
	for _, step := range steps {
		if err := step.call(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(step.want, robot.next(t)); diff != "" {
			t.Fatalf("unexpected request (-want +got):\n%s", diff)
		}
	}

	if err := client.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
	if err := client.SetLED(ctx, "#000000"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
	robot.server.Close()
}

func TestSpeakWaitsForSpeechEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	robot := newRobotStub(t, true)
	client, err := Dial(context.Background(), robot.host(), WithWaitForSpeech())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for range 2 {
		if err := client.Speak(ctx, "One moment."); err != nil {
			t.Fatalf("expected speech to end, got %v", err)
		}
	}

	if err := client.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
	robot.server.Close()
}

func TestSpeakWaitHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	robot := newRobotStub(t, false)
	client, err := Dial(context.Background(), robot.host(), WithWaitForSpeech())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := client.Speak(ctx, "Never ends."); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
	robot.server.Close()
}

func TestPlanBehaviorPerformsOpeningEntry(t *testing.T) {
	defer goleak.VerifyNone(t)

	robot := newRobotStub(t, false)
	client, err := Dial(context.Background(), robot.host())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	err = client.PlanBehavior(context.Background(), []decision.BehaviorEntry{
		{Gesture: "nod"},
		{Gesture: "slight head shake"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := robot.next(t)
	if msg["type"] != typeGestureStart || msg["name"] != "Nod" {
		t.Fatalf("expected the opening nod, got %v", msg)
	}
	select {
	case extra := <-robot.received:
		t.Fatalf("expected only the opening entry, got %v", extra)
	case <-time.After(50 * time.Millisecond):
	}

	if err := client.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
	robot.server.Close()
}

func TestCloseReportsFailedClosingHandshake(t *testing.T) {
	defer goleak.VerifyNone(t)

	robot := newRobotStub(t, false)
	client, err := Dial(context.Background(), robot.host(), WithWriteTimeout(time.Second))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	// A close frame already went out, so the handshake in Close cannot be
	// written while the socket itself still closes cleanly.
	if err := client.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	); err != nil {
		t.Fatalf("failed to send close frame: %v", err)
	}

	if err := client.Close(); !errors.Is(err, websocket.ErrCloseSent) {
		t.Fatalf("expected ErrCloseSent from Close, got %v", err)
	}
	robot.server.Close()
}

func TestEndpointURL(t *testing.T) {
	for host, want := range map[string]string{
		"192.168.1.20":                "ws://192.168.1.20:9000/v1/events",
		"robot.local:8000":            "ws://robot.local:8000/v1/events",
		"ws://robot.local:9000/other": "ws://robot.local:9000/other",
		"wss://robot.example.com":     "wss://robot.example.com:9000/v1/events",
	} {
		got, err := endpointURL(host)
		if err != nil {
			t.Fatalf("endpointURL(%q) failed: %v", host, err)
		}
		if got != want {
			t.Errorf("endpointURL(%q) = %q, want %q", host, got, want)
		}
	}

	if _, err := endpointURL("  "); err == nil {
		t.Fatalf("expected error for empty host")
	}
}
