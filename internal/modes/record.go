package modes

import "github.com/ChronosXYZ/oasis-gamemode-sub000/internal/storage"

// PlayerRecord is a player's persistent per-mode stats, stored as a JSON
// asset keyed by lowercase player name.
type PlayerRecord struct {
	Name string `json:"name"`

	Duel       DuelStats       `json:"duel"`
	Deathmatch DeathmatchStats `json:"deathmatch"`
	Arena      ArenaStats      `json:"arena"`

	// Extensions carries data written by newer builds or out-of-tree
	// modes, preserved verbatim across load/save cycles.
	Extensions storage.ExtensionState `json:"extensions,omitempty"`
}

type DuelStats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type DeathmatchStats struct {
	Kills  int `json:"kills"`
	Deaths int `json:"deaths"`
}

type ArenaStats struct {
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	BestStreak int `json:"best_streak"`
}

// Validate satisfies storage.ValidatingSpec. Records are written by the
// server itself, so there is nothing to check beyond shape.
func (r *PlayerRecord) Validate() error {
	return nil
}
