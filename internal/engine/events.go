package engine

// NoPlayer marks an absent player reference in an event, e.g. a death with
// no killer.
const NoPlayer = -1

type EventType string

const (
	EventConnect        EventType = "connect"
	EventDisconnect     EventType = "disconnect"
	EventSpawn          EventType = "spawn"
	EventDeath          EventType = "death"
	EventDamage         EventType = "damage"
	EventModeRequest    EventType = "mode_request"
	EventDuelRequest    EventType = "duel_request"
	EventDialogResponse EventType = "dialog_response"
)

// Event is one inbound engine occurrence, delivered on the simulation
// goroutine.
type Event struct {
	Type   EventType `json:"type"`
	Player int       `json:"player"`

	// Connect
	Name string `json:"name,omitempty"`

	// Death / damage
	Killer int     `json:"killer,omitempty"`
	Amount float64 `json:"amount,omitempty"`

	// Mode and duel requests
	Mode   string `json:"mode,omitempty"`
	Target int    `json:"target,omitempty"`

	// Dialog responses
	Dialog   string `json:"dialog,omitempty"`
	Choice   int    `json:"choice,omitempty"`
	Accepted bool   `json:"accepted,omitempty"`
}
