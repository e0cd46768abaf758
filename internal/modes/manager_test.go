package modes

import (
	"errors"
	"strings"
	"testing"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/idpool"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/storage"
)

// recordingNotifier captures Tell calls for assertions.
type recordingNotifier struct {
	msgs map[int][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{msgs: map[int][]string{}}
}

func (n *recordingNotifier) Tell(playerID int, msg string) error {
	n.msgs[playerID] = append(n.msgs[playerID], msg)
	return nil
}

func (n *recordingNotifier) received(playerID int, substr string) bool {
	for _, m := range n.msgs[playerID] {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

type fakeRouter struct {
	cleared []int
}

func (r *fakeRouter) HandleResponse(playerID int, dialogID string, choice int, accepted bool) {}
func (r *fakeRouter) ClearPlayer(playerID int) {
	r.cleared = append(r.cleared, playerID)
}

// fakeController records lifecycle calls and can fail joins on demand.
type fakeController struct {
	mode    Mode
	joinErr error

	joined   []int
	left     []int
	selected []int
	loaded   []int
	saved    []int
}

func (c *fakeController) Mode() Mode              { return c.mode }
func (c *fakeController) OnModeSelect(p *Player)  { c.selected = append(c.selected, p.ID) }
func (c *fakeController) OnModeLeave(p *Player)   { c.left = append(c.left, p.ID) }
func (c *fakeController) OnModeJoin(p *Player, data JoinData) error {
	if c.joinErr != nil {
		return c.joinErr
	}
	c.joined = append(c.joined, p.ID)
	return nil
}
func (c *fakeController) OnPlayerLoad(p *Player, rec *PlayerRecord) { c.loaded = append(c.loaded, p.ID) }
func (c *fakeController) OnPlayerSave(p *Player, rec *PlayerRecord) { c.saved = append(c.saved, p.ID) }

type busyTemp struct{}

func (busyTemp) Uninterruptible() bool { return true }

func newTestManager(t *testing.T, controllers ...*fakeController) (*Manager, *recordingNotifier, *fakeRouter, *storage.MemStore[*PlayerRecord]) {
	t.Helper()
	notifier := newRecordingNotifier()
	router := &fakeRouter{}
	records := storage.NewMemStore[*PlayerRecord]()
	mgr := NewManager(notifier, router, records, ModeFreeroam)
	for _, c := range controllers {
		if err := mgr.Register(c); err != nil {
			t.Fatalf("registering %s: %v", c.mode, err)
		}
	}
	return mgr, notifier, router, records
}

func TestRegisterDuplicate(t *testing.T) {
	mgr, _, _, _ := newTestManager(t, &fakeController{mode: ModeFreeroam})

	err := mgr.Register(&fakeController{mode: ModeFreeroam})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate registration error, got %v", err)
	}
}

func TestConnectJoinsDefaultMode(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	dm := &fakeController{mode: ModeDeathmatch}
	mgr, _, _, _ := newTestManager(t, fr, dm)

	mgr.HandleConnect(1, "Alice")

	p := mgr.Player(1)
	if p == nil {
		t.Fatal("player not created")
	}
	if p.Current != ModeFreeroam {
		t.Errorf("expected player in freeroam, got %q", p.Current)
	}
	if len(fr.joined) != 1 || fr.joined[0] != 1 {
		t.Errorf("freeroam join hook not called: %v", fr.joined)
	}
	if len(fr.loaded) != 1 || len(dm.loaded) != 1 {
		t.Errorf("load hooks should run for every controller: %v %v", fr.loaded, dm.loaded)
	}
}

func TestJoinUnregisteredModeLeavesPlayerUntouched(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	mgr, _, _, _ := newTestManager(t, fr)
	mgr.HandleConnect(1, "Alice")
	p := mgr.Player(1)

	err := mgr.JoinMode(p, ModeDuel, nil)
	if err == nil {
		t.Fatal("expected error joining unregistered mode")
	}
	if p.Current != ModeFreeroam {
		t.Errorf("player should remain in freeroam, got %q", p.Current)
	}
	if len(fr.left) != 0 {
		t.Errorf("leave hook must not run on a failed registration check: %v", fr.left)
	}
}

func TestJoinWhileBusy(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	dm := &fakeController{mode: ModeDeathmatch}
	mgr, _, _, _ := newTestManager(t, fr, dm)
	mgr.HandleConnect(1, "Alice")
	p := mgr.Player(1)
	p.SetTemp(ModeFreeroam, busyTemp{})

	err := mgr.JoinMode(p, ModeDeathmatch, nil)
	if !IsUserError(err) {
		t.Fatalf("expected user error, got %v", err)
	}
	if p.Current != ModeFreeroam {
		t.Errorf("busy player must stay in freeroam, got %q", p.Current)
	}
}

func TestJoinFailureLeavesNoMode(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	dm := &fakeController{mode: ModeDeathmatch, joinErr: errors.New("full")}
	mgr, _, _, _ := newTestManager(t, fr, dm)
	mgr.HandleConnect(1, "Alice")
	p := mgr.Player(1)

	err := mgr.JoinMode(p, ModeDeathmatch, nil)
	if err == nil {
		t.Fatal("expected join error")
	}
	if p.Current != ModeNone {
		t.Errorf("failed join should leave player in no mode, got %q", p.Current)
	}
	if len(fr.left) != 1 {
		t.Errorf("player should have left freeroam before the join attempt: %v", fr.left)
	}
}

func TestDisconnectSavesRecord(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	mgr, _, router, records := newTestManager(t, fr)
	mgr.HandleConnect(1, "Alice")

	mgr.HandleDisconnect(1)

	if mgr.Player(1) != nil {
		t.Error("player should be removed")
	}
	if rec := records.Get("alice"); rec == nil {
		t.Error("record should be saved under the lowercased name")
	}
	if len(fr.saved) != 1 {
		t.Errorf("save hook should run once: %v", fr.saved)
	}
	if len(fr.left) != 1 {
		t.Errorf("leave hook should run once: %v", fr.left)
	}
	if len(router.cleared) != 1 || router.cleared[0] != 1 {
		t.Errorf("pending dialogs should be dropped: %v", router.cleared)
	}
}

func TestConnectReusedIDDropsOldSession(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	mgr, _, _, records := newTestManager(t, fr)
	mgr.HandleConnect(1, "Alice")
	mgr.HandleConnect(1, "Bob")

	p := mgr.Player(1)
	if p == nil || p.Name != "Bob" {
		t.Fatalf("expected bob in slot 1, got %+v", p)
	}
	if records.Get("alice") == nil {
		t.Error("the replaced session should have been saved")
	}
}

func TestSelectModeUnavailable(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	mgr, notifier, _, _ := newTestManager(t, fr)
	mgr.HandleConnect(1, "Alice")

	mgr.SelectMode(mgr.Player(1), ModeDuel)

	if !notifier.received(1, "not available") {
		t.Errorf("expected unavailable notice, got %v", notifier.msgs[1])
	}
}

func TestHandleEventRoutesDialogResponsesWithoutPlayer(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	mgr, _, _, _ := newTestManager(t, fr)

	// Must not panic for an unknown player.
	mgr.HandleEvent(engine.Event{Type: engine.EventDeath, Player: 99})
	mgr.HandleEvent(engine.Event{Type: engine.EventDialogResponse, Player: 99, Dialog: "x"})
}

func TestTeardownRoom(t *testing.T) {
	fr := &fakeController{mode: ModeFreeroam}
	du := &fakeController{mode: ModeDuel}
	mgr, notifier, _, _ := newTestManager(t, fr, du)
	mgr.HandleConnect(1, "Alice")
	mgr.HandleConnect(2, "Bob")
	a, b := mgr.Player(1), mgr.Player(2)

	pool := idpool.New()
	rs := NewRoomSet(pool)
	room := rs.Create("dust", 2, 3)
	room.Add(1)
	room.Add(2)
	if err := mgr.JoinMode(a, ModeDuel, nil); err != nil {
		t.Fatal(err)
	}
	if err := mgr.JoinMode(b, ModeDuel, nil); err != nil {
		t.Fatal(err)
	}

	mgr.TeardownRoom(rs, room, "The duel is over.")

	if rs.Get(room.ID) != nil {
		t.Error("room should be destroyed")
	}
	if pool.Leased() != 0 {
		t.Errorf("world id should be returned, still leased %d", pool.Leased())
	}
	if a.Current != ModeFreeroam || b.Current != ModeFreeroam {
		t.Errorf("members should return to freeroam, got %q %q", a.Current, b.Current)
	}
	if !notifier.received(1, "The duel is over.") || !notifier.received(2, "The duel is over.") {
		t.Error("teardown note should reach every member")
	}
}
