package tui

// Internal timer messages. Host-pushed events arrive as host.EventMsg and
// host.ConnMsg from the websocket client.

// toastExpireMsg removes one toast by id. Expiring a toast that was already
// removed is a no-op.
type toastExpireMsg struct {
	id string
}

// levelPopDoneMsg ends the transient level-up emphasis.
type levelPopDoneMsg struct{}
