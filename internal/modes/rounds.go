package modes

import (
	"fmt"
	"time"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/timers"
)

// RoundSetup is how members are outfitted at the start of every round.
type RoundSetup struct {
	Spawns  []engine.Position
	Health  float64
	Armour  float64
	Weapons []Weapon
}

// Rounds drives the shared death-to-next-round-or-finish sequencing for
// two-member rooms. Duel and arena differ only in where their setup comes
// from.
type Rounds struct {
	World     engine.World
	Sched     *timers.Scheduler
	Rooms     *RoomSet
	Notifier  Notifier
	Countdown time.Duration
}

// HandleDeath advances a room past one member's death. It returns true when
// the room has played its last round; the caller then reads Finish() and
// tears the room down. Otherwise the next round is scheduled.
func (r *Rounds) HandleDeath(room *Room, victim, killer *Player, setup RoundSetup) bool {
	killerID := engine.NoPlayer
	if killer != nil {
		killerID = killer.ID
	}
	room.RecordKill(killerID, victim.ID)
	room.Round++

	if room.Round >= room.MaxRounds {
		room.Finish()
		return true
	}

	for _, id := range room.Members() {
		_ = r.Notifier.Tell(id, fmt.Sprintf("Round %d of %d starting...", room.Round+1, room.MaxRounds))
	}

	// A death during a pending countdown replaces the timer; kill the old
	// one so it cannot fire a duplicate round start.
	if room.StartTimer != nil {
		room.StartTimer.Kill()
	}

	roomID := room.ID
	room.StartTimer = r.Sched.Schedule(r.Countdown, false, func() {
		// The room may have died while the countdown ran.
		live := r.Rooms.Get(roomID)
		if live != room {
			return
		}
		room.StartTimer = nil
		r.StartRound(room, setup)
	})

	return false
}

// StartRound outfits and respawns every member for the current round.
func (r *Rounds) StartRound(room *Room, setup RoundSetup) {
	for i, id := range room.Members() {
		_ = r.World.SetVirtualWorld(id, RoomWorldBase+room.WorldID)
		_ = r.World.SetHealth(id, setup.Health)
		_ = r.World.SetArmour(id, setup.Armour)
		_ = r.World.ResetWeapons(id)
		for _, w := range setup.Weapons {
			_ = r.World.GiveWeapon(id, w.ID, w.Ammo)
		}
		if len(setup.Spawns) > 0 {
			_ = r.World.Spawn(id, setup.Spawns[i%len(setup.Spawns)])
		}
	}
}
