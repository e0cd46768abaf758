// Package arena is the ranked 1v1 queue: the first player waits, the
// second triggers a best-of-N match in a leased world. Rounds reuse the
// shared sequencing in the modes package.
package arena

import (
	"fmt"
	"sort"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/dialogs"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/messaging"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/storage"
)

const (
	noWaiting = -1

	matchHealth = 100
	matchArmour = 100
)

// Publisher is the notification and event-bus surface the controller uses.
type Publisher interface {
	Tell(playerID int, msg string) error
	Broadcast(ev messaging.ModeEvent) error
}

type tempData struct {
	RoomID int
}

type Controller struct {
	mgr        *modes.Manager
	pub        Publisher
	dlg        dialogs.Presenter
	arenas     storage.Storer[*modes.Arena]
	weaponSets storage.Storer[*modes.WeaponSet]

	rooms  *modes.RoomSet
	rounds modes.Rounds
	roster map[int]struct{}

	waiting   int
	rotation  int
	maxRounds int
	loadout   string
}

func NewController(mgr *modes.Manager, pub Publisher, dlg dialogs.Presenter,
	arenas storage.Storer[*modes.Arena], weaponSets storage.Storer[*modes.WeaponSet],
	rounds modes.Rounds, maxRounds int, loadout string) *Controller {
	c := &Controller{
		mgr:        mgr,
		pub:        pub,
		dlg:        dlg,
		arenas:     arenas,
		weaponSets: weaponSets,
		rounds:     rounds,
		roster:     map[int]struct{}{},
		waiting:    noWaiting,
		maxRounds:  maxRounds,
		loadout:    loadout,
	}
	c.rooms = rounds.Rooms
	return c
}

func (c *Controller) Mode() modes.Mode {
	return modes.ModeArena
}

func (c *Controller) OnModeSelect(p *modes.Player) {
	c.dlg.ShowConfirm(p.ID, "Arena", "Join the ranked 1v1 queue?", func(yes bool) {
		if !yes {
			return
		}
		if c.mgr.Player(p.ID) != p {
			return
		}
		if err := c.mgr.JoinMode(p, modes.ModeArena, nil); err != nil {
			if modes.IsUserError(err) {
				_ = c.pub.Tell(p.ID, err.Error())
			}
		}
	})
}

func (c *Controller) OnModeJoin(p *modes.Player, _ modes.JoinData) error {
	opponent := c.mgr.Player(c.waiting)
	if opponent == nil || c.waiting == p.ID {
		c.roster[p.ID] = struct{}{}
		p.SetTemp(modes.ModeArena, &tempData{RoomID: modes.NoRoom})
		c.waiting = p.ID
		_ = c.pub.Tell(p.ID, "You are in the queue. Waiting for an opponent...")
		return nil
	}

	arenaID := c.nextArena()
	if arenaID == "" {
		return modes.NewUserError("No arenas are configured.")
	}

	c.roster[p.ID] = struct{}{}
	c.waiting = noWaiting

	room := c.rooms.Create(arenaID, 2, c.maxRounds)
	room.Add(opponent.ID)
	room.Add(p.ID)
	opponent.SetTemp(modes.ModeArena, &tempData{RoomID: room.ID})
	p.SetTemp(modes.ModeArena, &tempData{RoomID: room.ID})

	for _, id := range room.Members() {
		_ = c.pub.Tell(id, fmt.Sprintf("Match found: best of %d in %s.", c.maxRounds, c.arenaName(arenaID)))
	}
	c.rounds.StartRound(room, c.setup(room))

	return nil
}

func (c *Controller) OnModeLeave(p *modes.Player) {
	delete(c.roster, p.ID)
	if c.waiting == p.ID {
		c.waiting = noWaiting
	}

	t, ok := p.Temp(modes.ModeArena).(*tempData)
	if !ok {
		return
	}
	room := c.rooms.Get(t.RoomID)
	if room == nil {
		return
	}

	room.Remove(p.ID)

	if room.Finished() {
		if room.Empty() {
			c.rooms.Destroy(room.ID)
		}
		return
	}

	// Leaving an unfinished match forfeits it.
	if opID, ok := room.Opponent(p.ID); ok {
		p.Record.Arena.Losses++
		if op := c.mgr.Player(opID); op != nil {
			op.Record.Arena.Wins++
			_ = c.pub.Tell(opID, fmt.Sprintf("%s left. You win by forfeit.", p.Name))
		}
		c.broadcastResult(room, opID)
		c.mgr.TeardownRoom(c.rooms, room, "")
		return
	}

	if room.Empty() {
		c.rooms.Destroy(room.ID)
	}
}

func (c *Controller) OnPlayerDeath(victim, killer *modes.Player) {
	t, ok := victim.Temp(modes.ModeArena).(*tempData)
	if !ok {
		return
	}
	room := c.rooms.Get(t.RoomID)
	if room == nil || room.Finished() {
		return
	}

	if !c.rounds.HandleDeath(room, victim, killer, c.setup(room)) {
		return
	}

	results := room.Finish()
	winner := results[0]

	for _, res := range results {
		p := c.mgr.Player(res.Player)
		if p == nil {
			continue
		}
		if res.Player == winner.Player {
			p.Record.Arena.Wins++
		} else {
			p.Record.Arena.Losses++
		}
		if s := room.Score(res.Player); s != nil && s.BestStreak > p.Record.Arena.BestStreak {
			p.Record.Arena.BestStreak = s.BestStreak
		}
		_ = c.pub.Tell(res.Player, fmt.Sprintf("Match over: %d - %d.", winner.Kills, results[len(results)-1].Kills))
	}

	c.broadcastResult(room, winner.Player)
	c.mgr.TeardownRoom(c.rooms, room, "")
}

func (c *Controller) OnPlayerDamage(victim, attacker *modes.Player, amount float64) {
	if attacker == nil {
		return
	}
	t, ok := victim.Temp(modes.ModeArena).(*tempData)
	if !ok {
		return
	}
	room := c.rooms.Get(t.RoomID)
	if room == nil || !room.Has(attacker.ID) {
		return
	}
	room.RecordDamage(attacker.ID, amount)
}

// OnModeEvent announces finished matches to queued players.
func (c *Controller) OnModeEvent(ev messaging.ModeEvent) {
	if ev.Mode != modes.ModeArena.String() {
		return
	}
	if ev.Type != "match_result" {
		return
	}

	winner := c.mgr.Player(ev.Player)
	if winner == nil {
		return
	}
	for id := range c.roster {
		if id != ev.Player {
			_ = c.pub.Tell(id, fmt.Sprintf("%s won an arena match.", winner.Name))
		}
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

// RosterSize returns the number of players queued or fighting.
func (c *Controller) RosterSize() int {
	return len(c.roster)
}

func (c *Controller) broadcastResult(room *modes.Room, winnerID int) {
	_ = c.pub.Broadcast(messaging.ModeEvent{
		Mode:   modes.ModeArena.String(),
		Type:   "match_result",
		Player: winnerID,
		Room:   room.ID,
	})
}

func (c *Controller) setup(room *modes.Room) modes.RoundSetup {
	setup := modes.RoundSetup{
		Health: matchHealth,
		Armour: matchArmour,
	}
	if arena := c.arenas.Get(room.ArenaID); arena != nil {
		setup.Spawns = arena.Spawns
	}
	if set := c.weaponSets.Get(c.loadout); set != nil {
		setup.Weapons = set.Weapons
	}
	return setup
}

func (c *Controller) arenaName(id string) string {
	if arena := c.arenas.Get(id); arena != nil {
		return arena.Name
	}
	return id
}

// nextArena rotates through the catalog so consecutive matches vary.
func (c *Controller) nextArena() string {
	ids := make([]string, 0)
	for id := range c.arenas.GetAll() {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)

	id := ids[c.rotation%len(ids)]
	c.rotation++
	return id
}
