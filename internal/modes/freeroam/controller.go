// Package freeroam is the neutral mode: no rooms, no rounds, players roam
// the shared world. Every room teardown path funnels players back here.
package freeroam

import (
	"math/rand/v2"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
)

// SharedWorld is the world id of the common, non-isolated simulation world.
// Leased room worlds live above modes.RoomWorldBase and never collide with
// it.
const SharedWorld = 0

const defaultHealth = 100

type Controller struct {
	mgr      *modes.Manager
	world    engine.World
	notifier modes.Notifier

	spawns []engine.Position
	roster map[int]struct{}
}

func NewController(mgr *modes.Manager, world engine.World, notifier modes.Notifier, spawns []engine.Position) *Controller {
	return &Controller{
		mgr:      mgr,
		world:    world,
		notifier: notifier,
		spawns:   spawns,
		roster:   map[int]struct{}{},
	}
}

func (c *Controller) Mode() modes.Mode {
	return modes.ModeFreeroam
}

// OnModeSelect has no entry flow; selecting freeroam joins it directly.
func (c *Controller) OnModeSelect(p *modes.Player) {
	if err := c.mgr.JoinMode(p, modes.ModeFreeroam, nil); err != nil {
		if modes.IsUserError(err) {
			_ = c.notifier.Tell(p.ID, err.Error())
		}
	}
}

func (c *Controller) OnModeJoin(p *modes.Player, _ modes.JoinData) error {
	c.roster[p.ID] = struct{}{}

	_ = c.world.SetVirtualWorld(p.ID, SharedWorld)
	_ = c.world.SetHealth(p.ID, defaultHealth)
	_ = c.world.SetArmour(p.ID, 0)
	_ = c.world.ResetWeapons(p.ID)
	if len(c.spawns) > 0 {
		_ = c.world.Spawn(p.ID, c.spawns[rand.IntN(len(c.spawns))])
	}

	return nil
}

func (c *Controller) OnModeLeave(p *modes.Player) {
	delete(c.roster, p.ID)
}

func (c *Controller) OnPlayerLoad(p *modes.Player, rec *modes.PlayerRecord) {
}

func (c *Controller) OnPlayerSave(p *modes.Player, rec *modes.PlayerRecord) {
	rec.Name = p.Name
}

// InMode reports roster membership, used by the admin console.
func (c *Controller) InMode(id int) bool {
	_, ok := c.roster[id]
	return ok
}

// RosterSize returns the number of players currently in freeroam.
func (c *Controller) RosterSize() int {
	return len(c.roster)
}
