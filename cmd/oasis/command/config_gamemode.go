package command

import (
	"fmt"
	"time"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
	"github.com/pixil98/go-errors"
)

const (
	defaultRespawnDelay   = 3 * time.Second
	defaultRoundCountdown = 5 * time.Second
	defaultArenaBestOf    = 3
)

type GamemodeConfig struct {
	DefaultMode    modes.Mode        `json:"default_mode"`
	RespawnDelay   string            `json:"respawn_delay"`
	RoundCountdown string            `json:"round_countdown"`
	ArenaBestOf    int               `json:"arena_best_of"`
	ArenaLoadout   string            `json:"arena_loadout"`
	FreeroamSpawns []engine.Position `json:"freeroam_spawns"`
}

func (c *GamemodeConfig) validate() error {
	el := errors.NewErrorList()

	if c.RespawnDelay != "" {
		if _, err := time.ParseDuration(c.RespawnDelay); err != nil {
			el.Add(fmt.Errorf("parsing respawn_delay: %w", err))
		}
	}
	if c.RoundCountdown != "" {
		if _, err := time.ParseDuration(c.RoundCountdown); err != nil {
			el.Add(fmt.Errorf("parsing round_countdown: %w", err))
		}
	}
	if c.ArenaBestOf < 0 {
		el.Add(fmt.Errorf("arena_best_of must not be negative"))
	}
	if len(c.FreeroamSpawns) == 0 {
		el.Add(fmt.Errorf("at least one freeroam spawn is required"))
	}

	return el.Err()
}

func (c *GamemodeConfig) defaultMode() modes.Mode {
	if c.DefaultMode == modes.ModeNone || c.DefaultMode == "" {
		return modes.ModeFreeroam
	}
	return c.DefaultMode
}

func (c *GamemodeConfig) respawnDelay() time.Duration {
	return parseOr(c.RespawnDelay, defaultRespawnDelay)
}

func (c *GamemodeConfig) roundCountdown() time.Duration {
	return parseOr(c.RoundCountdown, defaultRoundCountdown)
}

func (c *GamemodeConfig) arenaBestOf() int {
	if c.ArenaBestOf == 0 {
		return defaultArenaBestOf
	}
	return c.ArenaBestOf
}

func parseOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
