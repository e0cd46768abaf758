package modes

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
)

// Arena is a match location asset: a set of spawn points inside an isolated
// world. The world id itself is leased per room, not part of the asset.
type Arena struct {
	Name     string            `json:"name"`
	Spawns   []engine.Position `json:"spawns"`
	Capacity int               `json:"capacity"`
}

// Validate satisfies storage.ValidatingSpec.
func (a *Arena) Validate() error {
	el := errors.NewErrorList()

	if a.Name == "" {
		el.Add(fmt.Errorf("arena name is required"))
	}
	if len(a.Spawns) < 2 {
		el.Add(fmt.Errorf("at least 2 spawns are required"))
	}
	if a.Capacity < 0 {
		el.Add(fmt.Errorf("capacity cannot be negative"))
	}

	return el.Err()
}

// Spawn returns the spawn point for a member index, wrapping around when an
// arena has fewer spawns than members.
func (a *Arena) Spawn(idx int) engine.Position {
	return a.Spawns[idx%len(a.Spawns)]
}

// WeaponSet is a loadout asset handed to room members each round.
type WeaponSet struct {
	Name    string   `json:"name"`
	Weapons []Weapon `json:"weapons"`
}

type Weapon struct {
	ID   int `json:"id"`
	Ammo int `json:"ammo"`
}

// Validate satisfies storage.ValidatingSpec.
func (w *WeaponSet) Validate() error {
	el := errors.NewErrorList()

	if w.Name == "" {
		el.Add(fmt.Errorf("weapon set name is required"))
	}
	if len(w.Weapons) == 0 {
		el.Add(fmt.Errorf("at least one weapon is required"))
	}
	for i, wep := range w.Weapons {
		if wep.ID <= 0 {
			el.Add(fmt.Errorf("weapon %d: id must be positive", i))
		}
		if wep.Ammo <= 0 {
			el.Add(fmt.Errorf("weapon %d: ammo must be positive", i))
		}
	}

	return el.Err()
}
