package freeroam

import (
	"testing"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/storage"
)

type nopNotifier struct{}

func (nopNotifier) Tell(playerID int, msg string) error { return nil }

type nopRouter struct{}

func (nopRouter) HandleResponse(playerID int, dialogID string, choice int, accepted bool) {}
func (nopRouter) ClearPlayer(playerID int)                                               {}

func newFixture(t *testing.T) (*Controller, *modes.Manager, *engine.Fake) {
	t.Helper()
	world := engine.NewFake()
	records := storage.NewMemStore[*modes.PlayerRecord]()
	mgr := modes.NewManager(nopNotifier{}, nopRouter{}, records, modes.ModeFreeroam)
	ctrl := NewController(mgr, world, nopNotifier{}, []engine.Position{{X: 1}, {X: 2}})
	if err := mgr.Register(ctrl); err != nil {
		t.Fatal(err)
	}
	return ctrl, mgr, world
}

func TestJoinOutfitsPlayer(t *testing.T) {
	ctrl, mgr, world := newFixture(t)

	mgr.HandleConnect(1, "Alice")

	if world.Worlds[1] != SharedWorld {
		t.Errorf("world = %d, want the shared world", world.Worlds[1])
	}
	if world.Healths[1] != 100 {
		t.Errorf("health = %v, want 100", world.Healths[1])
	}
	if world.Armours[1] != 0 {
		t.Errorf("armour = %v, want 0", world.Armours[1])
	}
	spawn := world.Spawns[1]
	if spawn.X != 1 && spawn.X != 2 {
		t.Errorf("spawn should come from the configured list: %+v", spawn)
	}
	if !ctrl.InMode(1) {
		t.Error("player should be on the roster")
	}
}

func TestLeaveDropsRoster(t *testing.T) {
	ctrl, mgr, _ := newFixture(t)
	mgr.HandleConnect(1, "Alice")

	mgr.HandleDisconnect(1)

	if ctrl.InMode(1) {
		t.Error("disconnected player should leave the roster")
	}
	if ctrl.RosterSize() != 0 {
		t.Errorf("roster size = %d, want 0", ctrl.RosterSize())
	}
}
