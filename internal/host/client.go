// Package host maintains the websocket link to the game host: a read pump
// that forwards pushed frames to the UI program and a write pump that drains
// outbound fire-and-forget commands.
package host

import (
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/sunnyfarm/tablet/internal/protocol"
)

// EventMsg carries one raw host frame into the UI update loop.
type EventMsg struct {
	Data []byte
}

// ConnMsg reports a connection state change.
type ConnMsg struct {
	Connected bool
	Err       error
}

const outboundQueueSize = 64

// Client is the websocket host channel. Commands queue in a buffered channel
// so emitting never blocks the UI; frames lost while disconnected are simply
// lost, matching the at-most-once outbound contract.
type Client struct {
	url    string
	min    time.Duration
	max    time.Duration
	logger *log.Logger

	out       chan protocol.Command
	done      chan struct{}
	closeOnce sync.Once
}

// New prepares a client; no connection is made until Start.
func New(url string, reconnectMin, reconnectMax time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	if reconnectMin <= 0 {
		reconnectMin = time.Second
	}
	if reconnectMax < reconnectMin {
		reconnectMax = 30 * time.Second
	}
	return &Client{
		url:    url,
		min:    reconnectMin,
		max:    reconnectMax,
		logger: logger,
		out:    make(chan protocol.Command, outboundQueueSize),
		done:   make(chan struct{}),
	}
}

// Start runs the connect/read/write loops in the background, delivering
// EventMsg and ConnMsg values through send (typically tea.Program.Send).
func (c *Client) Start(send func(tea.Msg)) {
	go c.run(send)
}

// Emit queues a command without blocking. A full queue drops the command with
// a log line; the host's follow-up toast is the only failure surface.
func (c *Client) Emit(cmd protocol.Command) {
	select {
	case c.out <- cmd:
	default:
		c.logger.Printf("outbound queue full, dropping %s command", cmd.Action)
	}
}

// Close stops the background loops and drops the connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) run(send func(tea.Msg)) {
	backoff := c.min
	for {
		select {
		case <-c.done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			send(ConnMsg{Connected: false, Err: err})
			select {
			case <-c.done:
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > c.max {
				backoff = c.max
			}
			continue
		}

		backoff = c.min
		send(ConnMsg{Connected: true})
		c.serve(conn, send)
		send(ConnMsg{Connected: false})

		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}
	}
}

// serve pumps a single connection until either side drops it.
func (c *Client) serve(conn *websocket.Conn, send func(tea.Msg)) {
	defer conn.Close()

	writerDone := make(chan struct{})
	readerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for {
			select {
			case cmd := <-c.out:
				if err := conn.WriteJSON(cmd); err != nil {
					c.logger.Printf("write %s: %v", cmd.Action, err)
					return
				}
			case <-readerDone:
				return
			case <-c.done:
				return
			}
		}
	}()

	func() {
		defer close(readerDone)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			send(EventMsg{Data: payload})
		}
	}()

	<-writerDone
}
