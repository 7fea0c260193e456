package host

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/sunnyfarm/tablet/internal/protocol"
)

var upgrader = websocket.Upgrader{}

// echoHost upgrades each request, pushes greeting frames and echoes back every
// command it reads.
func echoHost(t *testing.T, greetings ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, g := range greetings {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(g)); err != nil {
				return
			}
		}
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/tablet"
}

func collectMsgs(buf chan tea.Msg) func(tea.Msg) {
	return func(msg tea.Msg) {
		select {
		case buf <- msg:
		default:
		}
	}
}

func waitFor(t *testing.T, buf chan tea.Msg, match func(tea.Msg) bool) tea.Msg {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-buf:
			if match(msg) {
				return msg
			}
		case <-deadline:
			t.Fatal("timed out waiting for message")
		}
	}
}

func TestClientReceivesPushedFrames(t *testing.T) {
	srv := echoHost(t, `{"action":"open"}`, `{"action":"sync","state":null}`)

	c := New(wsURL(srv), 10*time.Millisecond, 100*time.Millisecond, nil)
	defer c.Close()

	buf := make(chan tea.Msg, 32)
	c.Start(collectMsgs(buf))

	msg := waitFor(t, buf, func(m tea.Msg) bool {
		cm, ok := m.(ConnMsg)
		return ok && cm.Connected
	})
	if cm := msg.(ConnMsg); cm.Err != nil {
		t.Fatalf("unexpected err: %v", cm.Err)
	}

	ev := waitFor(t, buf, func(m tea.Msg) bool {
		_, ok := m.(EventMsg)
		return ok
	}).(EventMsg)

	env, err := protocol.DecodeAction(ev.Data)
	if err != nil || env.Action != protocol.ActionOpen {
		t.Fatalf("frame=%s err=%v", ev.Data, err)
	}
}

func TestClientWritesQueuedCommands(t *testing.T) {
	srv := echoHost(t)

	c := New(wsURL(srv), 10*time.Millisecond, 100*time.Millisecond, nil)
	defer c.Close()

	buf := make(chan tea.Msg, 32)
	c.Start(collectMsgs(buf))

	waitFor(t, buf, func(m tea.Msg) bool {
		cm, ok := m.(ConnMsg)
		return ok && cm.Connected
	})

	c.Emit(protocol.Collect("wheat"))

	// The echo host reflects the command back as an inbound frame.
	ev := waitFor(t, buf, func(m tea.Msg) bool {
		_, ok := m.(EventMsg)
		return ok
	}).(EventMsg)

	var cmd protocol.Command
	if err := json.Unmarshal(ev.Data, &cmd); err != nil {
		t.Fatalf("unmarshal echo: %v", err)
	}
	if cmd.Action != protocol.CmdCollect || cmd.Crop != "wheat" {
		t.Fatalf("cmd=%+v", cmd)
	}
}

func TestClientReconnects(t *testing.T) {
	srv := echoHost(t, `{"action":"open"}`)

	c := New(wsURL(srv), 10*time.Millisecond, 50*time.Millisecond, nil)
	defer c.Close()

	buf := make(chan tea.Msg, 64)
	c.Start(collectMsgs(buf))

	waitFor(t, buf, func(m tea.Msg) bool {
		cm, ok := m.(ConnMsg)
		return ok && cm.Connected
	})

	// Drop every open connection; the client should dial again.
	srv.CloseClientConnections()

	waitFor(t, buf, func(m tea.Msg) bool {
		cm, ok := m.(ConnMsg)
		return ok && !cm.Connected
	})
	waitFor(t, buf, func(m tea.Msg) bool {
		cm, ok := m.(ConnMsg)
		return ok && cm.Connected
	})
}

func TestClientReportsDialFailure(t *testing.T) {
	c := New("ws://127.0.0.1:1/tablet", 10*time.Millisecond, 50*time.Millisecond, nil)
	defer c.Close()

	buf := make(chan tea.Msg, 8)
	c.Start(collectMsgs(buf))

	msg := waitFor(t, buf, func(m tea.Msg) bool {
		_, ok := m.(ConnMsg)
		return ok
	}).(ConnMsg)
	if msg.Connected || msg.Err == nil {
		t.Fatalf("msg=%+v", msg)
	}
}

func TestEmitNeverBlocks(t *testing.T) {
	var sb strings.Builder
	logger := log.New(&sb, "", 0)

	// Never started: nothing drains the queue.
	c := New("ws://unused/tablet", time.Second, time.Second, logger)
	defer c.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < outboundQueueSize+10; i++ {
			c.Emit(protocol.Collect(fmt.Sprintf("crop-%d", i)))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full queue")
	}
	if !strings.Contains(sb.String(), "dropping") {
		t.Fatal("overflow should be logged")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New("ws://unused/tablet", time.Second, time.Second, nil)
	c.Close()
	c.Close()
}
