package protocol

// Action is the normalized command carried by an inbound event.
type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionStatus Action = "status"
)

const InvalidActionMessage = "Invalid action. Use 'start', 'stop', or 'status'."

func (a Action) Valid() bool {
	switch a {
	case ActionStart, ActionStop, ActionStatus:
		return true
	default:
		return false
	}
}
