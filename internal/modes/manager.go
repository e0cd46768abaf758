package modes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/storage"
)

// Notifier delivers a chat notification to one player.
type Notifier interface {
	Tell(playerID int, msg string) error
}

// DialogRouter receives dialog response events and drops pending dialogs on
// disconnect.
type DialogRouter interface {
	HandleResponse(playerID int, dialogID string, choice int, accepted bool)
	ClearPlayer(playerID int)
}

// Manager is the single authority mapping players to their current mode.
// Every transition goes through it; controllers never move a player
// directly. All methods run on the simulation goroutine, and re-entrant
// calls for other players are expected mid-transition (a death cascading
// into joins and teardowns), so every mutation is completed before any
// call out to a controller.
type Manager struct {
	controllers map[Mode]Controller
	order       []Mode

	players map[int]*Player

	notifier Notifier
	dialogs  DialogRouter
	records  storage.Storer[*PlayerRecord]

	defaultMode Mode
}

func NewManager(notifier Notifier, dialogs DialogRouter, records storage.Storer[*PlayerRecord], defaultMode Mode) *Manager {
	return &Manager{
		controllers: map[Mode]Controller{},
		players:     map[int]*Player{},
		notifier:    notifier,
		dialogs:     dialogs,
		records:     records,
		defaultMode: defaultMode,
	}
}

// Register adds a controller. Registration is fixed at startup; there is no
// runtime add or remove.
func (m *Manager) Register(c Controller) error {
	if _, exists := m.controllers[c.Mode()]; exists {
		return fmt.Errorf("mode %q already registered", c.Mode())
	}
	m.controllers[c.Mode()] = c
	m.order = append(m.order, c.Mode())
	return nil
}

// Controller returns the registered controller for a mode, or nil.
func (m *Manager) Controller(mode Mode) Controller {
	return m.controllers[mode]
}

// Player returns a connected player, or nil.
func (m *Manager) Player(id int) *Player {
	return m.players[id]
}

// ForEachPlayer visits every connected player.
func (m *Manager) ForEachPlayer(fn func(*Player)) {
	for _, p := range m.players {
		fn(p)
	}
}

// DefaultMode is the neutral mode players land in on connect and after a
// room teardown.
func (m *Manager) DefaultMode() Mode {
	return m.defaultMode
}

// HandleEvent routes one engine event. It runs on the simulation goroutine.
func (m *Manager) HandleEvent(ev engine.Event) {
	switch ev.Type {
	case engine.EventConnect:
		m.HandleConnect(ev.Player, ev.Name)
		return
	case engine.EventDialogResponse:
		m.dialogs.HandleResponse(ev.Player, ev.Dialog, ev.Choice, ev.Accepted)
		return
	}

	p := m.players[ev.Player]
	if p == nil {
		return
	}

	switch ev.Type {
	case engine.EventDisconnect:
		m.HandleDisconnect(ev.Player)

	case engine.EventSpawn:
		if h, ok := m.controllers[p.Current].(SpawnHandler); ok {
			h.OnPlayerSpawn(p)
		}

	case engine.EventDeath:
		killer := m.players[ev.Killer]
		if h, ok := m.controllers[p.Current].(DeathHandler); ok {
			h.OnPlayerDeath(p, killer)
		}

	case engine.EventDamage:
		attacker := m.players[ev.Killer]
		if h, ok := m.controllers[p.Current].(DamageHandler); ok {
			h.OnPlayerDamage(p, attacker, ev.Amount)
		}

	case engine.EventModeRequest:
		mode, ok := Parse(ev.Mode)
		if !ok {
			_ = m.notifier.Tell(p.ID, "Unknown game mode.")
			return
		}
		m.SelectMode(p, mode)

	case engine.EventDuelRequest:
		if h, ok := m.controllers[ModeDuel].(DuelRequestHandler); ok {
			h.OnDuelRequest(p, ev.Target)
		}
	}
}

// HandleConnect creates the player session, runs the load hooks and drops
// the player into the default mode.
func (m *Manager) HandleConnect(id int, name string) {
	if _, exists := m.players[id]; exists {
		// The engine reused the slot without a disconnect; drop the old
		// session first.
		m.HandleDisconnect(id)
	}

	p := NewPlayer(id, name)
	p.Record = m.loadRecord(name)
	m.players[id] = p

	for _, mode := range m.order {
		m.controllers[mode].OnPlayerLoad(p, p.Record)
	}

	if err := m.JoinMode(p, m.defaultMode, nil); err != nil {
		slog.Warn("joining default mode on connect", "player", id, "error", err)
	}

	slog.Info("player connected", "player", id, "name", name)
}

// HandleDisconnect tears the session down: pending dialogs dropped, current
// mode left (which handles any room teardown), per-controller disconnect
// cleanup, save hooks, record persisted.
func (m *Manager) HandleDisconnect(id int) {
	p, ok := m.players[id]
	if !ok {
		return
	}

	m.dialogs.ClearPlayer(id)
	m.RemoveFromCurrentMode(p)
	p.Current = ModeNone

	for _, mode := range m.order {
		if h, ok := m.controllers[mode].(DisconnectHandler); ok {
			h.OnPlayerDisconnect(p)
		}
	}

	for _, mode := range m.order {
		m.controllers[mode].OnPlayerSave(p, p.Record)
	}
	if err := m.records.Save(recordKey(p.Name), p.Record); err != nil {
		slog.Error("saving player record", "player", id, "error", err)
	}

	delete(m.players, id)
	slog.Info("player disconnected", "player", id)
}

// SelectMode starts a mode's own entry flow. Unregistered modes produce a
// player-visible message, not a hard error.
func (m *Manager) SelectMode(p *Player, mode Mode) {
	c, ok := m.controllers[mode]
	if !ok {
		_ = m.notifier.Tell(p.ID, "That game mode is not available.")
		return
	}
	c.OnModeSelect(p)
}

// JoinMode moves a player into a mode. The registration check runs before
// any state changes, so a join into an unregistered mode leaves the player
// exactly where they were. On a controller join failure the player ends up
// in no mode; the caller decides whether to restore them.
func (m *Manager) JoinMode(p *Player, mode Mode, data JoinData) error {
	c, ok := m.controllers[mode]
	if !ok {
		return fmt.Errorf("no controller registered for mode %q", mode)
	}

	if p.Busy() {
		return NewUserError("You cannot switch modes right now.")
	}

	m.RemoveFromCurrentMode(p)

	p.Previous = p.Current
	p.Current = mode

	if err := c.OnModeJoin(p, data); err != nil {
		p.Current = ModeNone
		return err
	}

	return nil
}

// RemoveFromCurrentMode runs the current controller's leave hook and clears
// the mode's scratch record. It never fails and is a no-op for players in
// no mode.
func (m *Manager) RemoveFromCurrentMode(p *Player) {
	if p.Current == ModeNone {
		return
	}
	if c, ok := m.controllers[p.Current]; ok {
		c.OnModeLeave(p)
	}
	p.ClearTemp(p.Current)
}

// TeardownRoom is the single teardown routine shared by every room-ending
// path: last member leaving, duel refusal, disconnects and match completion.
// Membership is cleared and the room destroyed before any player is moved,
// so re-entrant leave hooks see a consistent table.
func (m *Manager) TeardownRoom(rs *RoomSet, room *Room, note string) {
	members := room.Members()
	for _, id := range members {
		room.Remove(id)
	}
	rs.Destroy(room.ID)

	for _, id := range members {
		p := m.players[id]
		if p == nil {
			continue
		}
		if note != "" {
			_ = m.notifier.Tell(id, note)
		}
		if err := m.JoinMode(p, m.defaultMode, nil); err != nil {
			slog.Warn("moving player to neutral mode", "player", id, "error", err)
		}
	}
}

func (m *Manager) loadRecord(name string) *PlayerRecord {
	rec := m.records.Get(recordKey(name))
	if rec == nil {
		rec = &PlayerRecord{Name: name}
	}
	return rec
}

func recordKey(name string) string {
	return strings.ToLower(name)
}
