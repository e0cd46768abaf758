// Package deathmatch runs free-for-all rooms of configurable capacity on
// the arena catalog. Rooms live while they have members; there is no round
// sequencing, only running kill counters.
package deathmatch

import (
	"fmt"
	"sort"
	"time"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/dialogs"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/idpool"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/messaging"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/storage"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/timers"
)

const (
	defaultCapacity = 8
	defaultHealth   = 100

	// streakStep is how many consecutive kills earn a spree announcement.
	streakStep = 5
)

// Publisher is the notification and event-bus surface the controller uses.
type Publisher interface {
	Tell(playerID int, msg string) error
	Broadcast(ev messaging.ModeEvent) error
}

// tempData is the per-player scratch record while in deathmatch.
type tempData struct {
	RoomID     int
	Respawning bool

	respawnTimer *timers.Timer
}

// Uninterruptible blocks mode switches while the player is mid-respawn.
func (t *tempData) Uninterruptible() bool {
	return t.Respawning
}

type Controller struct {
	mgr    *modes.Manager
	world  engine.World
	pub    Publisher
	dlg    dialogs.Presenter
	arenas storage.Storer[*modes.Arena]
	sched  *timers.Scheduler

	rooms  *modes.RoomSet
	roster map[int]struct{}

	respawnDelay time.Duration
}

func NewController(mgr *modes.Manager, world engine.World, pub Publisher, dlg dialogs.Presenter,
	arenas storage.Storer[*modes.Arena], sched *timers.Scheduler, worldIDs *idpool.Pool, respawnDelay time.Duration) *Controller {
	return &Controller{
		mgr:          mgr,
		world:        world,
		pub:          pub,
		dlg:          dlg,
		arenas:       arenas,
		sched:        sched,
		rooms:        modes.NewRoomSet(worldIDs),
		roster:       map[int]struct{}{},
		respawnDelay: respawnDelay,
	}
}

func (c *Controller) Mode() modes.Mode {
	return modes.ModeDeathmatch
}

// OnModeSelect lists joinable games and one "new game" entry per arena.
func (c *Controller) OnModeSelect(p *modes.Player) {
	type entry struct {
		roomID  int
		arenaID string
	}

	var items []string
	var entries []entry

	c.rooms.ForEach(func(r *modes.Room) {
		if r.Full() {
			return
		}
		items = append(items, fmt.Sprintf("Join game #%d - %s (%d/%d)", r.ID, c.arenaName(r.ArenaID), len(r.Members()), r.Capacity))
		entries = append(entries, entry{roomID: r.ID, arenaID: ""})
	})

	for _, id := range c.sortedArenaIDs() {
		items = append(items, fmt.Sprintf("New game: %s", c.arenaName(id)))
		entries = append(entries, entry{roomID: modes.NoRoom, arenaID: id})
	}

	if len(items) == 0 {
		_ = c.pub.Tell(p.ID, "No deathmatch arenas are configured.")
		return
	}

	c.dlg.ShowList(p.ID, "Deathmatch", items, func(choice int, ok bool) {
		if !ok {
			return
		}
		// The player may have disconnected while the dialog was open.
		if c.mgr.Player(p.ID) != p {
			return
		}

		e := entries[choice]
		var data modes.JoinData
		if e.roomID != modes.NoRoom {
			data = modes.JoinData{"room": e.roomID}
		} else {
			data = modes.JoinData{"arena": e.arenaID}
		}

		if err := c.mgr.JoinMode(p, modes.ModeDeathmatch, data); err != nil {
			if modes.IsUserError(err) {
				_ = c.pub.Tell(p.ID, err.Error())
			}
		}
	})
}

func (c *Controller) OnModeJoin(p *modes.Player, data modes.JoinData) error {
	room, created, err := c.resolveRoom(data)
	if err != nil {
		return err
	}

	if !room.Add(p.ID) {
		if created {
			c.rooms.Destroy(room.ID)
		}
		return modes.NewUserError("That game is full.")
	}

	c.roster[p.ID] = struct{}{}
	p.SetTemp(modes.ModeDeathmatch, &tempData{RoomID: room.ID})

	c.seat(p, room)

	for _, id := range room.Members() {
		if id != p.ID {
			_ = c.pub.Tell(id, fmt.Sprintf("%s joined the game.", p.Name))
		}
	}

	return nil
}

// resolveRoom validates the join bag into an existing or freshly created
// room without seating anyone.
func (c *Controller) resolveRoom(data modes.JoinData) (room *modes.Room, created bool, err error) {
	if id, ok := data.Int("room"); ok {
		room := c.rooms.Get(id)
		if room == nil {
			return nil, false, modes.NewUserError("That game no longer exists.")
		}
		if room.Full() {
			return nil, false, modes.NewUserError("That game is full.")
		}
		return room, false, nil
	}

	if arenaID, ok := data.String("arena"); ok {
		arena := c.arenas.Get(arenaID)
		if arena == nil {
			return nil, false, modes.NewUserError("Unknown arena.")
		}
		capacity := arena.Capacity
		if capacity == 0 {
			capacity = defaultCapacity
		}
		return c.rooms.Create(arenaID, capacity, 0), true, nil
	}

	return nil, false, modes.NewUserError("Malformed deathmatch join request.")
}

func (c *Controller) seat(p *modes.Player, room *modes.Room) {
	arena := c.arenas.Get(room.ArenaID)

	_ = c.world.SetVirtualWorld(p.ID, modes.RoomWorldBase+room.WorldID)
	_ = c.world.SetHealth(p.ID, defaultHealth)
	_ = c.world.SetArmour(p.ID, 0)
	_ = c.world.ResetWeapons(p.ID)
	if arena != nil {
		_ = c.world.Spawn(p.ID, arena.Spawn(len(room.Members())-1))
	}
}

func (c *Controller) OnModeLeave(p *modes.Player) {
	delete(c.roster, p.ID)

	t, ok := p.Temp(modes.ModeDeathmatch).(*tempData)
	if !ok {
		return
	}
	if t.respawnTimer != nil {
		t.respawnTimer.Kill()
		t.respawnTimer = nil
		t.Respawning = false
	}

	room := c.rooms.Get(t.RoomID)
	if room == nil {
		return
	}

	room.Remove(p.ID)
	for _, id := range room.Members() {
		_ = c.pub.Tell(id, fmt.Sprintf("%s left the game.", p.Name))
	}

	if room.Empty() {
		room.Finish()
		_ = c.pub.Broadcast(messaging.ModeEvent{
			Mode: modes.ModeDeathmatch.String(),
			Type: "game_over",
			Room: room.ID,
		})
		c.rooms.Destroy(room.ID)
	}
}

func (c *Controller) OnPlayerDeath(victim, killer *modes.Player) {
	t, ok := victim.Temp(modes.ModeDeathmatch).(*tempData)
	if !ok {
		return
	}
	room := c.rooms.Get(t.RoomID)
	if room == nil {
		return
	}

	killerID := engine.NoPlayer
	if killer != nil {
		killerID = killer.ID
	}
	room.RecordKill(killerID, victim.ID)

	victim.Record.Deathmatch.Deaths++
	if killer != nil && killer != victim {
		killer.Record.Deathmatch.Kills++

		if s := room.Score(killer.ID); s != nil && s.Streak > 0 && s.Streak%streakStep == 0 {
			_ = c.pub.Broadcast(messaging.ModeEvent{
				Mode:   modes.ModeDeathmatch.String(),
				Type:   "kill_streak",
				Player: killer.ID,
				Room:   room.ID,
				Count:  s.Streak,
			})
		}
	}

	t.Respawning = true
	t.respawnTimer = c.sched.Schedule(c.respawnDelay, false, func() {
		// Both the player and the room may be gone by now.
		if c.mgr.Player(victim.ID) != victim {
			return
		}
		cur, ok := victim.Temp(modes.ModeDeathmatch).(*tempData)
		if !ok || cur != t {
			return
		}
		t.Respawning = false
		t.respawnTimer = nil

		// The id may have been reused by a newer room.
		if c.rooms.Get(t.RoomID) == room {
			c.seat(victim, room)
		}
	})
}

func (c *Controller) OnPlayerDamage(victim, attacker *modes.Player, amount float64) {
	if attacker == nil {
		return
	}
	t, ok := victim.Temp(modes.ModeDeathmatch).(*tempData)
	if !ok {
		return
	}
	room := c.rooms.Get(t.RoomID)
	if room == nil || !room.Has(attacker.ID) {
		return
	}
	room.RecordDamage(attacker.ID, amount)
}

// OnModeEvent announces kill sprees to the room. Events for other modes are
// ignored.
func (c *Controller) OnModeEvent(ev messaging.ModeEvent) {
	if ev.Mode != modes.ModeDeathmatch.String() {
		return
	}
	if ev.Type != "kill_streak" {
		return
	}

	room := c.rooms.Get(ev.Room)
	if room == nil {
		return
	}
	killer := c.mgr.Player(ev.Player)
	if killer == nil {
		return
	}

	for _, id := range room.Members() {
		_ = c.pub.Tell(id, fmt.Sprintf("%s is on a killing spree (%d kills)!", killer.Name, ev.Count))
	}
}

func (c *Controller) OnPlayerLoad(p *modes.Player, rec *modes.PlayerRecord) {
}

func (c *Controller) OnPlayerSave(p *modes.Player, rec *modes.PlayerRecord) {
	rec.Name = p.Name
}

// Rooms exposes the live room table to the admin console.
func (c *Controller) Rooms() *modes.RoomSet {
	return c.rooms
}

// RosterSize returns the number of players currently in deathmatch.
func (c *Controller) RosterSize() int {
	return len(c.roster)
}

func (c *Controller) arenaName(id string) string {
	if a := c.arenas.Get(id); a != nil {
		return a.Name
	}
	return id
}

func (c *Controller) sortedArenaIDs() []string {
	ids := make([]string, 0)
	for id := range c.arenas.GetAll() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
