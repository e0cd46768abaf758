package modes

import "fmt"

// Mode is a mutually exclusive top-level activity a player is enrolled in.
// A player is in exactly one mode at a time.
type Mode string

const (
	ModeNone       Mode = "none"
	ModeFreeroam   Mode = "freeroam"
	ModeDeathmatch Mode = "deathmatch"
	ModeDuel       Mode = "duel"
	ModeArena      Mode = "arena"
)

// Parse maps an inbound mode tag to a Mode. ModeNone is not addressable
// from the outside.
func Parse(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeFreeroam, ModeDeathmatch, ModeDuel, ModeArena:
		return Mode(s), true
	default:
		return ModeNone, false
	}
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("unknown mode: %s", text)
	}
	*m = parsed
	return nil
}

func (m Mode) String() string {
	return string(m)
}
