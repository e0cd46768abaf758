package modes

import "time"

// NoRoom marks a duel offer that has not yet produced a room.
const NoRoom = -1

// Player is one connected player's session. It lives from the engine's
// connect event until its disconnect event and is owned by the Manager.
type Player struct {
	ID   int
	Name string

	Current  Mode
	Previous Mode

	// Record is the player's persistent stats record, loaded at session
	// start and saved at session end.
	Record *PlayerRecord

	// Duel negotiation is attached to the player, not to any room: an
	// offer exists before any room does. OffersReceived is keyed by the
	// sending player's id.
	OfferSent      *DuelOffer
	OffersReceived map[int]*DuelOffer

	// temp holds one optional per-mode scratch record. Only the record
	// for the active mode is meaningful; the Manager clears a mode's
	// record when the player leaves it.
	temp map[Mode]any
}

func NewPlayer(id int, name string) *Player {
	return &Player{
		ID:             id,
		Name:           name,
		Current:        ModeNone,
		Previous:       ModeNone,
		OffersReceived: map[int]*DuelOffer{},
		temp:           map[Mode]any{},
	}
}

// Temp returns the scratch record for a mode, or nil.
func (p *Player) Temp(m Mode) any {
	return p.temp[m]
}

func (p *Player) SetTemp(m Mode, v any) {
	p.temp[m] = v
}

func (p *Player) ClearTemp(m Mode) {
	delete(p.temp, m)
}

// Uninterruptible temp data blocks mode transitions while set, e.g. a
// deathmatch member mid-respawn.
type Uninterruptible interface {
	Uninterruptible() bool
}

// Busy reports whether the player's active-mode scratch record currently
// forbids a transition.
func (p *Player) Busy() bool {
	if t, ok := p.temp[p.Current].(Uninterruptible); ok {
		return t.Uninterruptible()
	}
	return false
}

// DuelOffer is a proposed two-party match configuration pending acceptance.
// The sender holds the mutable draft; once sent, an immutable copy is
// mirrored into the target's received set.
type DuelOffer struct {
	ID   string
	From int
	To   int

	Arena     string
	WeaponSet string
	Rounds    int
	Health    float64
	Armour    float64

	// RoomID is the leased room once the offer is accepted, NoRoom before.
	RoomID int

	// Sent is false while the offer is still a draft under configuration.
	Sent   bool
	SentAt time.Time
}
