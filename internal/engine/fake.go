package engine

import "fmt"

// Fake is an in-memory World used by tests across the mode packages. It
// records every call in order.
type Fake struct {
	Calls []string

	Worlds  map[int]int
	Healths map[int]float64
	Armours map[int]float64
	Spawns  map[int]Position
}

func NewFake() *Fake {
	return &Fake{
		Worlds:  map[int]int{},
		Healths: map[int]float64{},
		Armours: map[int]float64{},
		Spawns:  map[int]Position{},
	}
}

func (f *Fake) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) SetVirtualWorld(playerID, worldID int) error {
	f.Worlds[playerID] = worldID
	f.record("world %d -> %d", playerID, worldID)
	return nil
}

func (f *Fake) Spawn(playerID int, pos Position) error {
	f.Spawns[playerID] = pos
	f.record("spawn %d", playerID)
	return nil
}

func (f *Fake) SetHealth(playerID int, health float64) error {
	f.Healths[playerID] = health
	f.record("health %d -> %v", playerID, health)
	return nil
}

func (f *Fake) SetArmour(playerID int, armour float64) error {
	f.Armours[playerID] = armour
	f.record("armour %d -> %v", playerID, armour)
	return nil
}

func (f *Fake) ResetWeapons(playerID int) error {
	f.record("reset_weapons %d", playerID)
	return nil
}

func (f *Fake) GiveWeapon(playerID, weaponID, ammo int) error {
	f.record("weapon %d -> %d", playerID, weaponID)
	return nil
}

func (f *Fake) SendMessage(playerID int, msg string) error {
	f.record("message %d: %s", playerID, msg)
	return nil
}
