package modes

import (
	"testing"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/idpool"
)

func TestRoomAdd(t *testing.T) {
	tests := map[string]struct {
		capacity int
		seat     []int
		finish   bool
		add      int
		expOK    bool
		expLen   int
	}{
		"seat into empty room": {
			capacity: 2,
			add:      1,
			expOK:    true,
			expLen:   1,
		},
		"full room rejects": {
			capacity: 2,
			seat:     []int{1, 2},
			add:      3,
			expOK:    false,
			expLen:   2,
		},
		"duplicate rejects": {
			capacity: 4,
			seat:     []int{1},
			add:      1,
			expOK:    false,
			expLen:   1,
		},
		"finished room rejects": {
			capacity: 4,
			seat:     []int{1},
			finish:   true,
			add:      2,
			expOK:    false,
			expLen:   1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rs := NewRoomSet(idpool.New())
			room := rs.Create("dust", tt.capacity, 3)
			for _, id := range tt.seat {
				room.Add(id)
			}
			if tt.finish {
				room.Finish()
			}

			ok := room.Add(tt.add)

			if ok != tt.expOK {
				t.Errorf("Add(%d) = %v, want %v", tt.add, ok, tt.expOK)
			}
			if len(room.Members()) != tt.expLen {
				t.Errorf("members = %v, want %d seats", room.Members(), tt.expLen)
			}
		})
	}
}

func TestRoomRejectedAddMutatesNothing(t *testing.T) {
	rs := NewRoomSet(idpool.New())
	room := rs.Create("dust", 1, 3)
	room.Add(1)

	if room.Add(2) {
		t.Fatal("room is full, add should fail")
	}
	if room.Score(2) != nil {
		t.Error("rejected player must not get a score row")
	}
	if room.Has(2) {
		t.Error("rejected player must not be seated")
	}
}

func TestRoomRemoveKeepsScoreRow(t *testing.T) {
	rs := NewRoomSet(idpool.New())
	room := rs.Create("dust", 2, 3)
	room.Add(1)
	room.Add(2)
	room.RecordKill(1, 2)

	room.Remove(2)
	room.Remove(2) // idempotent

	if room.Has(2) {
		t.Error("player should be unseated")
	}
	if s := room.Score(2); s == nil || s.Deaths != 1 {
		t.Errorf("score row should survive removal: %+v", s)
	}
}

func TestRoomStreaks(t *testing.T) {
	rs := NewRoomSet(idpool.New())
	room := rs.Create("dust", 4, 0)
	room.Add(1)
	room.Add(2)

	room.RecordKill(1, 2)
	room.RecordKill(1, 2)
	room.RecordKill(2, 1)

	one := room.Score(1)
	if one.Kills != 2 || one.Streak != 0 || one.BestStreak != 2 {
		t.Errorf("player 1 score = %+v", one)
	}
	two := room.Score(2)
	if two.Kills != 1 || two.Deaths != 2 || two.Streak != 1 {
		t.Errorf("player 2 score = %+v", two)
	}
}

func TestRoomEnvironmentalDeath(t *testing.T) {
	rs := NewRoomSet(idpool.New())
	room := rs.Create("dust", 2, 0)
	room.Add(1)

	room.RecordKill(-1, 1)

	if s := room.Score(1); s.Deaths != 1 {
		t.Errorf("deaths = %d, want 1", s.Deaths)
	}
}

func TestRoomFinishOrderingAndCaching(t *testing.T) {
	rs := NewRoomSet(idpool.New())
	room := rs.Create("dust", 4, 0)
	room.Add(1)
	room.Add(2)
	room.Add(3)

	room.RecordKill(2, 1)
	room.RecordKill(2, 3)
	room.RecordKill(1, 3)

	first := room.Finish()
	if first[0].Player != 2 || first[0].Kills != 2 {
		t.Errorf("winner should be player 2 with 2 kills: %+v", first)
	}
	// Players 1 and 3 both have one and zero kills; 1 outranks 3.
	if first[1].Player != 1 || first[2].Player != 3 {
		t.Errorf("tie break should follow seating order: %+v", first)
	}

	room.RecordKill(3, 1)
	second := room.Finish()
	if &first[0] != &second[0] {
		t.Error("finish must cache and never recompute")
	}
}

func TestRoomSetLeasesAndReuse(t *testing.T) {
	worlds := idpool.New()
	rs := NewRoomSet(worlds)

	a := rs.Create("dust", 2, 3)
	b := rs.Create("ice", 2, 3)
	if a.WorldID == b.WorldID {
		t.Fatalf("live rooms must not share a world: %d", a.WorldID)
	}
	if worlds.Leased() != 2 {
		t.Errorf("leased = %d, want 2", worlds.Leased())
	}

	rs.Destroy(a.ID)
	rs.Destroy(a.ID) // idempotent

	if rs.Get(a.ID) != nil {
		t.Error("destroyed room should be gone")
	}
	if worlds.Leased() != 1 {
		t.Errorf("leased = %d, want 1 after destroy", worlds.Leased())
	}

	c := rs.Create("sand", 2, 3)
	if c.ID != a.ID {
		t.Errorf("room id should be reused smallest-first: got %d, want %d", c.ID, a.ID)
	}
	if c.WorldID != a.WorldID {
		t.Errorf("world id should be reused smallest-first: got %d, want %d", c.WorldID, a.WorldID)
	}
}

func TestRoomSetSharedWorldPool(t *testing.T) {
	worlds := idpool.New()
	duels := NewRoomSet(worlds)
	arenas := NewRoomSet(worlds)

	a := duels.Create("dust", 2, 3)
	b := arenas.Create("dust", 2, 3)

	if a.WorldID == b.WorldID {
		t.Errorf("sets sharing a pool must not collide: %d", a.WorldID)
	}
	// Room ids are per-set and may repeat across sets.
	if a.ID != 0 || b.ID != 0 {
		t.Errorf("room ids are per set: %d %d", a.ID, b.ID)
	}
}
