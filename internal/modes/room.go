package modes

import (
	"sort"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/idpool"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/timers"
)

// RoomWorldBase offsets leased world ids into the engine's world id space,
// keeping them clear of the shared freeroam world.
const RoomWorldBase = 1000

// Room is an ephemeral, resource-isolated match instance owned by one mode
// controller. Players reference rooms by id only; the owning RoomSet is the
// sole owner of the Room value.
type Room struct {
	ID      int
	WorldID int
	ArenaID string

	Capacity  int
	MaxRounds int
	Round     int

	// StartTimer is the pending round-start countdown, if any. Teardown
	// kills it; its closure must also re-validate the room is still live.
	StartTimer *timers.Timer

	members []int
	scores  map[int]*Score
	order   int

	results []Result
}

// Score is one member's running counters for the life of a room.
type Score struct {
	Kills      int
	Deaths     int
	Streak     int
	BestStreak int
	Damage     float64

	joined int
}

// Result is one row of a finished room's standings.
type Result struct {
	Player int
	Kills  int
	Deaths int
	Damage float64
}

// Add seats a player. It rejects without mutating anything once the room is
// full or finished.
func (r *Room) Add(id int) bool {
	if len(r.members) >= r.Capacity || r.Finished() {
		return false
	}
	if r.Has(id) {
		return false
	}

	r.members = append(r.members, id)
	if _, ok := r.scores[id]; !ok {
		r.scores[id] = &Score{joined: r.order}
		r.order++
	}
	return true
}

// Remove unseats a player. Removing an absent player is a no-op. The
// player's score row survives for the final standings.
func (r *Room) Remove(id int) {
	for i, m := range r.members {
		if m == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}

func (r *Room) Has(id int) bool {
	for _, m := range r.members {
		if m == id {
			return true
		}
	}
	return false
}

func (r *Room) Full() bool {
	return len(r.members) >= r.Capacity
}

func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Members returns the seated players in join order.
func (r *Room) Members() []int {
	out := make([]int, len(r.members))
	copy(out, r.members)
	return out
}

// Opponent returns the other member of a two-player room.
func (r *Room) Opponent(id int) (int, bool) {
	for _, m := range r.members {
		if m != id {
			return m, true
		}
	}
	return 0, false
}

// Score returns a member's counters, or nil for players never seated here.
func (r *Room) Score(id int) *Score {
	return r.scores[id]
}

// RecordKill updates both parties' counters. An environmental death passes
// killer NoPlayer.
func (r *Room) RecordKill(killer, victim int) {
	if v := r.scores[victim]; v != nil {
		v.Deaths++
		v.Streak = 0
	}
	if k := r.scores[killer]; k != nil && killer != victim {
		k.Kills++
		k.Streak++
		if k.Streak > k.BestStreak {
			k.BestStreak = k.Streak
		}
	}
}

// RecordDamage adds to a member's damage-dealt counter.
func (r *Room) RecordDamage(attacker int, amount float64) {
	if s := r.scores[attacker]; s != nil {
		s.Damage += amount
	}
}

func (r *Room) Finished() bool {
	return r.results != nil
}

// Finish computes the final standings once: kills descending, ties broken
// by seating order. Later calls return the identical cached slice and never
// recompute.
func (r *Room) Finish() []Result {
	if r.results != nil {
		return r.results
	}

	type row struct {
		player int
		score  *Score
	}
	rows := make([]row, 0, len(r.scores))
	for id, s := range r.scores {
		rows = append(rows, row{player: id, score: s})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score.Kills != rows[j].score.Kills {
			return rows[i].score.Kills > rows[j].score.Kills
		}
		return rows[i].score.joined < rows[j].score.joined
	})

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, Result{
			Player: row.player,
			Kills:  row.score.Kills,
			Deaths: row.score.Deaths,
			Damage: row.score.Damage,
		})
	}

	r.results = results
	return r.results
}

// RoomSet is a controller's room table. Room ids come from the set's own
// pool; world ids come from a pool shared by reference across every
// room-creating controller so no two live rooms ever collide.
type RoomSet struct {
	rooms    map[int]*Room
	roomIDs  *idpool.Pool
	worldIDs *idpool.Pool
}

func NewRoomSet(worldIDs *idpool.Pool) *RoomSet {
	return &RoomSet{
		rooms:    map[int]*Room{},
		roomIDs:  idpool.New(),
		worldIDs: worldIDs,
	}
}

// Create leases a room id and a world id and registers a new room.
func (s *RoomSet) Create(arenaID string, capacity, maxRounds int) *Room {
	r := &Room{
		ID:        s.roomIDs.Allocate(),
		WorldID:   s.worldIDs.Allocate(),
		ArenaID:   arenaID,
		Capacity:  capacity,
		MaxRounds: maxRounds,
		scores:    map[int]*Score{},
	}
	s.rooms[r.ID] = r
	return r
}

// Get returns the live room for an id, or nil.
func (s *RoomSet) Get(id int) *Room {
	return s.rooms[id]
}

// Destroy unregisters a room, cancels its pending timer and returns both
// leased ids. Destroying a dead id is a no-op.
func (s *RoomSet) Destroy(id int) {
	r, ok := s.rooms[id]
	if !ok {
		return
	}
	delete(s.rooms, id)

	if r.StartTimer != nil {
		r.StartTimer.Kill()
		r.StartTimer = nil
	}
	s.worldIDs.Free(r.WorldID)
	s.roomIDs.Free(r.ID)
}

func (s *RoomSet) Len() int {
	return len(s.rooms)
}

// ForEach visits live rooms in ascending id order.
func (s *RoomSet) ForEach(fn func(*Room)) {
	ids := make([]int, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(s.rooms[id])
	}
}
