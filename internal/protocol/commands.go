package protocol

// Command is an outbound fire-and-forget request to the host. There is no
// correlation id and no acknowledgement; host-side outcomes come back later
// as ordinary sync/receipt/toast events.
type Command struct {
	Action  string         `json:"action"`
	Crop    string         `json:"crop,omitempty"`
	Recipe  string         `json:"recipe,omitempty"`
	Items   map[string]int `json:"items,omitempty"`
	Enabled *bool          `json:"enabled,omitempty"`
}

// RequestSync asks the host for a fresh snapshot. Emitted exactly once at
// panel boot; the host may push further syncs unprompted.
func RequestSync() Command {
	return Command{Action: CmdRequestSync}
}

// RequestClose asks the host to hide the panel. The panel itself stays open
// until the host pushes a close event back.
func RequestClose() Command {
	return Command{Action: CmdClose}
}

// Collect requests harvesting of one crop.
func Collect(crop string) Command {
	return Command{Action: CmdCollect, Crop: crop}
}

// Process requests running one recipe. Affordability is validated host-side.
func Process(recipe string) Command {
	return Command{Action: CmdProcess, Recipe: recipe}
}

// Sell submits the full draft snapshot as item -> quantity.
func Sell(items map[string]int) Command {
	return Command{Action: CmdSell, Items: items}
}

// SetWaypoint toggles the farm waypoint preference.
func SetWaypoint(enabled bool) Command {
	return Command{Action: CmdSetWaypoint, Enabled: &enabled}
}
