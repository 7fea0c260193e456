// Package protocol defines the tagged JSON messages exchanged with the host
// application. Inbound messages carry an "action" discriminator; outbound
// commands are fire-and-forget and never awaited.
package protocol

import "encoding/json"

// Inbound actions (host -> panel).
const (
	ActionOpen     = "open"
	ActionClose    = "close"
	ActionSync     = "sync"
	ActionToast    = "toast"
	ActionReceipt  = "receipt"
	ActionLevelUp  = "levelUp"
	ActionProgress = "progress"
)

// Outbound actions (panel -> host).
const (
	CmdRequestSync = "requestSync"
	CmdClose       = "close"
	CmdCollect     = "collect"
	CmdProcess     = "process"
	CmdSell        = "sell"
	CmdSetWaypoint = "setWaypoint"
)

// Envelope lets us route unknown JSON messages by action.
type Envelope struct {
	Action string `json:"action"`
}

// DecodeAction peels the discriminator off a raw frame.
func DecodeAction(b []byte) (Envelope, error) {
	var e Envelope
	err := json.Unmarshal(b, &e)
	return e, err
}
