package modes

import "testing"

func TestParse(t *testing.T) {
	tests := map[string]struct {
		in    string
		exp   Mode
		expOK bool
	}{
		"freeroam":   {in: "freeroam", exp: ModeFreeroam, expOK: true},
		"deathmatch": {in: "deathmatch", exp: ModeDeathmatch, expOK: true},
		"duel":       {in: "duel", exp: ModeDuel, expOK: true},
		"arena":      {in: "arena", exp: ModeArena, expOK: true},
		"unknown":    {in: "racing", expOK: false},
		"empty":      {in: "", expOK: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := Parse(tt.in)
			if ok != tt.expOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.expOK)
			}
			if ok && got != tt.exp {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.exp)
			}
		})
	}
}

func TestJoinDataInt(t *testing.T) {
	tests := map[string]struct {
		data  JoinData
		key   string
		exp   int
		expOK bool
	}{
		"int value":        {data: JoinData{"room": 3}, key: "room", exp: 3, expOK: true},
		"decoded float":    {data: JoinData{"room": float64(3)}, key: "room", exp: 3, expOK: true},
		"fractional float": {data: JoinData{"room": 3.5}, key: "room", expOK: false},
		"missing key":      {data: JoinData{}, key: "room", expOK: false},
		"nil data":         {data: nil, key: "room", expOK: false},
		"wrong type":       {data: JoinData{"room": "3"}, key: "room", expOK: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := tt.data.Int(tt.key)
			if ok != tt.expOK {
				t.Fatalf("Int(%q) ok = %v, want %v", tt.key, ok, tt.expOK)
			}
			if ok && got != tt.exp {
				t.Errorf("Int(%q) = %d, want %d", tt.key, got, tt.exp)
			}
		})
	}
}

func TestPlayerBusy(t *testing.T) {
	p := NewPlayer(1, "Alice")
	if p.Busy() {
		t.Error("fresh player should not be busy")
	}

	p.SetTemp(ModeDeathmatch, busyTemp{})
	if !p.Busy() {
		t.Error("uninterruptible temp data should mark the player busy")
	}

	p.ClearTemp(ModeDeathmatch)
	if p.Busy() {
		t.Error("cleared temp data should unmark busy")
	}
}
