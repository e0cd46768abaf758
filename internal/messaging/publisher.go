package messaging

import (
	"encoding/json"
	"fmt"
)

const (
	// ModeEventSubject carries cross-cutting gameplay events. Every mode
	// controller subscribes and filters by its own mode tag.
	ModeEventSubject = "mode.events"
)

// ModeEvent is a gameplay event broadcast to all mode controllers.
type ModeEvent struct {
	Mode   string `json:"mode"`
	Type   string `json:"type"`
	Player int    `json:"player"`
	Room   int    `json:"room,omitempty"`
	Count  int    `json:"count,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Bus is the subset of NatsServer the publisher needs.
type Bus interface {
	Publish(subject string, data []byte) error
}

// Publisher sends player notifications and mode events onto the bus.
type Publisher struct {
	bus Bus
}

func NewPublisher(bus Bus) *Publisher {
	return &Publisher{bus: bus}
}

// Tell delivers a notification line to one player's channel. Admin console
// sessions may also tap these channels to watch a player.
func (p *Publisher) Tell(playerID int, msg string) error {
	return p.bus.Publish(PlayerSubject(playerID), []byte(msg))
}

// Broadcast publishes a mode event for every controller to see.
func (p *Publisher) Broadcast(ev ModeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling mode event: %w", err)
	}
	return p.bus.Publish(ModeEventSubject, data)
}

// PlayerSubject returns the notification subject for one player.
func PlayerSubject(playerID int) string {
	return fmt.Sprintf("player-%d", playerID)
}
