package engine

// Position is a world-space location with a facing angle.
type Position struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Angle float64 `json:"angle"`
}

// World is the hosting simulation engine. The gamemode core never simulates
// physics itself; it only issues these opaque calls.
type World interface {
	// SetVirtualWorld moves a player into an isolated simulation world.
	SetVirtualWorld(playerID, worldID int) error

	// Spawn respawns a player at the given position in their current world.
	Spawn(playerID int, pos Position) error

	SetHealth(playerID int, health float64) error
	SetArmour(playerID int, armour float64) error

	ResetWeapons(playerID int) error
	GiveWeapon(playerID, weaponID, ammo int) error

	// SendMessage displays a chat line to one player.
	SendMessage(playerID int, msg string) error
}
