package engine

import (
	"encoding/json"
	"fmt"
)

const (
	// CommandSubject carries outbound engine commands.
	CommandSubject = "engine.cmd"
	// EventSubject carries inbound engine events.
	EventSubject = "engine.events"
)

// Publisher sends a message on a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Command is one outbound instruction to the hosting engine.
type Command struct {
	Op     string    `json:"op"`
	Player int       `json:"player"`
	World  int       `json:"world,omitempty"`
	Pos    *Position `json:"pos,omitempty"`
	Value  float64   `json:"value,omitempty"`
	Weapon int       `json:"weapon,omitempty"`
	Ammo   int       `json:"ammo,omitempty"`
	Text   string    `json:"text,omitempty"`
}

// Bridge implements World by publishing JSON commands onto the message bus,
// where the hosting engine's adapter consumes them.
type Bridge struct {
	pub Publisher
}

func NewBridge(pub Publisher) *Bridge {
	return &Bridge{pub: pub}
}

func (b *Bridge) send(cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshalling engine command: %w", err)
	}
	return b.pub.Publish(CommandSubject, data)
}

func (b *Bridge) SetVirtualWorld(playerID, worldID int) error {
	return b.send(Command{Op: "set_world", Player: playerID, World: worldID})
}

func (b *Bridge) Spawn(playerID int, pos Position) error {
	return b.send(Command{Op: "spawn", Player: playerID, Pos: &pos})
}

func (b *Bridge) SetHealth(playerID int, health float64) error {
	return b.send(Command{Op: "set_health", Player: playerID, Value: health})
}

func (b *Bridge) SetArmour(playerID int, armour float64) error {
	return b.send(Command{Op: "set_armour", Player: playerID, Value: armour})
}

func (b *Bridge) ResetWeapons(playerID int) error {
	return b.send(Command{Op: "reset_weapons", Player: playerID})
}

func (b *Bridge) GiveWeapon(playerID, weaponID, ammo int) error {
	return b.send(Command{Op: "give_weapon", Player: playerID, Weapon: weaponID, Ammo: ammo})
}

func (b *Bridge) SendMessage(playerID int, msg string) error {
	return b.send(Command{Op: "message", Player: playerID, Text: msg})
}
