// Package duel implements challenge-based 1v1 matches. A duel starts with an
// offer negotiated through dialogs, and runs best-of-N rounds in a leased
// world once the target accepts.
package duel

import (
	"fmt"
	"sort"
	"time"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/dialogs"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/messaging"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/storage"
)

// Publisher is the notification and event-bus surface the controller uses.
type Publisher interface {
	Tell(playerID int, msg string) error
	Broadcast(ev messaging.ModeEvent) error
}

type tempData struct {
	RoomID int
}

type Controller struct {
	mgr        *modes.Manager
	pub        Publisher
	dlg        dialogs.Presenter
	arenas     storage.Storer[*modes.Arena]
	weaponSets storage.Storer[*modes.WeaponSet]

	rooms  *modes.RoomSet
	rounds modes.Rounds
	roster map[int]struct{}

	// terms keeps the accepted offer per live room so round setup can be
	// rebuilt after every death.
	terms map[int]*modes.DuelOffer

	now func() time.Time
}

func NewController(mgr *modes.Manager, pub Publisher, dlg dialogs.Presenter,
	arenas storage.Storer[*modes.Arena], weaponSets storage.Storer[*modes.WeaponSet],
	rounds modes.Rounds) *Controller {
	return &Controller{
		mgr:        mgr,
		pub:        pub,
		dlg:        dlg,
		arenas:     arenas,
		weaponSets: weaponSets,
		rooms:      rounds.Rooms,
		rounds:     rounds,
		roster:     map[int]struct{}{},
		terms:      map[int]*modes.DuelOffer{},
		now:        time.Now,
	}
}

func (c *Controller) Mode() modes.Mode {
	return modes.ModeDuel
}

// OnModeSelect shows the player their received offers and, if they have one
// out, the option to withdraw it. Accepting an offer is the only way in.
func (c *Controller) OnModeSelect(p *modes.Player) {
	senders := make([]int, 0, len(p.OffersReceived))
	for id := range p.OffersReceived {
		senders = append(senders, id)
	}
	sort.Ints(senders)

	items := make([]string, 0, len(senders)+1)
	for _, id := range senders {
		offer := p.OffersReceived[id]
		items = append(items, fmt.Sprintf("From %s: %s, best of %d", c.playerName(id), c.arenaName(offer.Arena), offer.Rounds))
	}
	if p.OfferSent != nil {
		items = append(items, fmt.Sprintf("Withdraw your offer to %s", c.playerName(p.OfferSent.To)))
	}

	if len(items) == 0 {
		_ = c.pub.Tell(p.ID, "You have no duel offers. Challenge someone first.")
		return
	}

	c.dlg.ShowList(p.ID, "Duels", items, func(choice int, ok bool) {
		if !ok || c.mgr.Player(p.ID) != p {
			return
		}
		if choice >= len(senders) {
			c.cancel(p)
			return
		}
		offer, ok := p.OffersReceived[senders[choice]]
		if !ok {
			_ = c.pub.Tell(p.ID, "That offer is no longer available.")
			return
		}
		c.confirmAccept(p, offer)
	})
}

func (c *Controller) confirmAccept(p *modes.Player, offer *modes.DuelOffer) {
	body := fmt.Sprintf("Duel %s? %s, %s, best of %d.",
		c.playerName(offer.From), c.arenaName(offer.Arena), offer.WeaponSet, offer.Rounds)
	c.dlg.ShowConfirm(p.ID, "Accept duel", body, func(yes bool) {
		if c.mgr.Player(p.ID) != p {
			return
		}
		if yes {
			c.accept(p, offer)
		} else {
			c.refuse(p, offer)
		}
	})
}

// accept starts the duel. Room creation and both mode switches either all
// succeed or are all undone, with each player restored to the mode they were
// in before.
func (c *Controller) accept(target *modes.Player, offer *modes.DuelOffer) {
	sender := c.mgr.Player(offer.From)
	if sender == nil || sender.OfferSent == nil || sender.OfferSent.ID != offer.ID {
		delete(target.OffersReceived, offer.From)
		_ = c.pub.Tell(target.ID, "That offer is no longer valid.")
		return
	}

	sender.OfferSent = nil
	delete(target.OffersReceived, offer.From)

	prevSender := sender.Current
	prevTarget := target.Current

	room := c.rooms.Create(offer.Arena, 2, offer.Rounds)
	c.terms[room.ID] = offer
	offer.RoomID = room.ID

	data := modes.JoinData{"room": room.ID}
	if err := c.mgr.JoinMode(sender, modes.ModeDuel, data); err != nil {
		c.abort(room, offer, err.Error(), rollback{sender, prevSender})
		_ = c.pub.Tell(target.ID, "The duel could not start.")
		return
	}
	if err := c.mgr.JoinMode(target, modes.ModeDuel, data); err != nil {
		c.abort(room, offer, err.Error(), rollback{sender, prevSender}, rollback{target, prevTarget})
		return
	}

	_ = c.pub.Tell(sender.ID, fmt.Sprintf("%s accepted your duel.", target.Name))
	_ = c.pub.Tell(target.ID, fmt.Sprintf("Duel against %s is starting.", sender.Name))
	c.rounds.StartRound(room, c.setup(room))
}

type rollback struct {
	p    *modes.Player
	prev modes.Mode
}

// abort unwinds a half-started duel: the room is released and every player
// already moved is put back where they came from.
func (c *Controller) abort(room *modes.Room, offer *modes.DuelOffer, reason string, undo ...rollback) {
	delete(c.terms, room.ID)
	offer.RoomID = modes.NoRoom
	c.rooms.Destroy(room.ID)

	for _, u := range undo {
		if c.mgr.Player(u.p.ID) != u.p {
			continue
		}
		_ = c.pub.Tell(u.p.ID, "The duel could not start: "+reason)
		prev := u.prev
		if prev == modes.ModeNone || prev == modes.ModeDuel {
			prev = c.mgr.DefaultMode()
		}
		if err := c.mgr.JoinMode(u.p, prev, nil); err != nil {
			_ = c.mgr.JoinMode(u.p, c.mgr.DefaultMode(), nil)
		}
	}
}

func (c *Controller) refuse(target *modes.Player, offer *modes.DuelOffer) {
	delete(target.OffersReceived, offer.From)
	if sender := c.mgr.Player(offer.From); sender != nil &&
		sender.OfferSent != nil && sender.OfferSent.ID == offer.ID {
		sender.OfferSent = nil
		_ = c.pub.Tell(sender.ID, fmt.Sprintf("%s refused your duel.", target.Name))
	}
	_ = c.pub.Tell(target.ID, "Duel refused.")
}

// cancel withdraws the player's own outstanding offer.
func (c *Controller) cancel(p *modes.Player) {
	offer := p.OfferSent
	if offer == nil {
		return
	}
	p.OfferSent = nil
	if target := c.mgr.Player(offer.To); target != nil {
		delete(target.OffersReceived, p.ID)
		_ = c.pub.Tell(target.ID, fmt.Sprintf("%s withdrew their duel offer.", p.Name))
	}
	_ = c.pub.Tell(p.ID, "Offer withdrawn.")
}

func (c *Controller) OnModeJoin(p *modes.Player, data modes.JoinData) error {
	roomID, ok := data.Int("room")
	if !ok {
		return modes.NewUserError("Duels start by accepting an offer.")
	}
	room := c.rooms.Get(roomID)
	if room == nil {
		return modes.NewUserError("That duel no longer exists.")
	}
	if !room.Add(p.ID) {
		return modes.NewUserError("That duel already has both players.")
	}

	c.roster[p.ID] = struct{}{}
	p.SetTemp(modes.ModeDuel, &tempData{RoomID: room.ID})
	return nil
}

func (c *Controller) OnModeLeave(p *modes.Player) {
	delete(c.roster, p.ID)

	t, ok := p.Temp(modes.ModeDuel).(*tempData)
	if !ok {
		return
	}
	room := c.rooms.Get(t.RoomID)
	if room == nil {
		return
	}

	room.Remove(p.ID)

	if room.Finished() {
		if room.Empty() {
			delete(c.terms, room.ID)
			c.rooms.Destroy(room.ID)
		}
		return
	}

	// Walking out of a live duel concedes it.
	if opID, ok := room.Opponent(p.ID); ok {
		p.Record.Duel.Losses++
		op := c.mgr.Player(opID)
		if op != nil {
			op.Record.Duel.Wins++
			_ = c.pub.Tell(opID, fmt.Sprintf("%s conceded the duel.", p.Name))
		}
		c.broadcastResult(room, opID, p.ID)
		delete(c.terms, room.ID)
		c.mgr.TeardownRoom(c.rooms, room, "")
		return
	}

	if room.Empty() {
		delete(c.terms, room.ID)
		c.rooms.Destroy(room.ID)
	}
}

func (c *Controller) OnPlayerDeath(victim, killer *modes.Player) {
	t, ok := victim.Temp(modes.ModeDuel).(*tempData)
	if !ok {
		return
	}
	room := c.rooms.Get(t.RoomID)
	if room == nil || room.Finished() {
		return
	}

	if !c.rounds.HandleDeath(room, victim, killer, c.setup(room)) {
		return
	}

	results := room.Finish()
	winner := results[0]
	loser := results[len(results)-1]

	for _, res := range results {
		p := c.mgr.Player(res.Player)
		if p == nil {
			continue
		}
		if res.Player == winner.Player {
			p.Record.Duel.Wins++
		} else {
			p.Record.Duel.Losses++
		}
		_ = c.pub.Tell(res.Player, fmt.Sprintf("Duel over: %d - %d.", winner.Kills, loser.Kills))
	}

	c.broadcastResult(room, winner.Player, loser.Player)
	delete(c.terms, room.ID)
	c.mgr.TeardownRoom(c.rooms, room, "")
}

func (c *Controller) OnPlayerDamage(victim, attacker *modes.Player, amount float64) {
	if attacker == nil {
		return
	}
	t, ok := victim.Temp(modes.ModeDuel).(*tempData)
	if !ok {
		return
	}
	room := c.rooms.Get(t.RoomID)
	if room == nil || !room.Has(attacker.ID) {
		return
	}
	room.RecordDamage(attacker.ID, amount)
}

// OnPlayerDisconnect cleans up offer state on both sides of the table. Room
// forfeits are already handled by the mode-leave path.
func (c *Controller) OnPlayerDisconnect(p *modes.Player) {
	if offer := p.OfferSent; offer != nil {
		p.OfferSent = nil
		if target := c.mgr.Player(offer.To); target != nil {
			delete(target.OffersReceived, p.ID)
			_ = c.pub.Tell(target.ID, fmt.Sprintf("%s went offline; their duel offer was withdrawn.", p.Name))
		}
	}

	for senderID := range p.OffersReceived {
		sender := c.mgr.Player(senderID)
		if sender == nil || sender.OfferSent == nil || sender.OfferSent.To != p.ID {
			continue
		}
		sender.OfferSent = nil
		_ = c.pub.Tell(senderID, fmt.Sprintf("%s went offline; your duel offer was cancelled.", p.Name))
	}
}

func (c *Controller) OnModeEvent(ev messaging.ModeEvent) {
	if ev.Mode != modes.ModeDuel.String() || ev.Type != "duel_result" {
		return
	}
	winner := c.mgr.Player(ev.Player)
	if winner == nil {
		return
	}
	msg := fmt.Sprintf("%s won a duel against %s.", winner.Name, ev.Detail)
	c.mgr.ForEachPlayer(func(p *modes.Player) {
		if p.ID != ev.Player {
			_ = c.pub.Tell(p.ID, msg)
		}
	})
}

func (c *Controller) OnPlayerLoad(p *modes.Player, rec *modes.PlayerRecord) {
}

func (c *Controller) OnPlayerSave(p *modes.Player, rec *modes.PlayerRecord) {
	rec.Name = p.Name
}

// Rooms exposes the live room table to the admin console.
func (c *Controller) Rooms() *modes.RoomSet {
	return c.rooms
}

func (c *Controller) RosterSize() int {
	return len(c.roster)
}

func (c *Controller) broadcastResult(room *modes.Room, winnerID, loserID int) {
	_ = c.pub.Broadcast(messaging.ModeEvent{
		Mode:   modes.ModeDuel.String(),
		Type:   "duel_result",
		Player: winnerID,
		Room:   room.ID,
		Detail: c.playerName(loserID),
	})
}

func (c *Controller) setup(room *modes.Room) modes.RoundSetup {
	setup := modes.RoundSetup{Health: 100}
	offer := c.terms[room.ID]
	if offer != nil {
		setup.Health = offer.Health
		setup.Armour = offer.Armour
		if set := c.weaponSets.Get(offer.WeaponSet); set != nil {
			setup.Weapons = set.Weapons
		}
	}
	if arena := c.arenas.Get(room.ArenaID); arena != nil {
		setup.Spawns = arena.Spawns
	}
	return setup
}

func (c *Controller) arenaName(id string) string {
	if arena := c.arenas.Get(id); arena != nil {
		return arena.Name
	}
	return id
}

func (c *Controller) playerName(id int) string {
	if p := c.mgr.Player(id); p != nil {
		return p.Name
	}
	return fmt.Sprintf("player %d", id)
}
