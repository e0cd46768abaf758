package duel

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
)

const (
	offerHealth = 100
	offerArmour = 100

	// offerTTL bounds how long an unanswered offer stays open.
	offerTTL = 2 * time.Minute
)

// roundChoices are the match lengths a challenger can pick from.
var roundChoices = []int{1, 3, 5, 10}

// OnDuelRequest walks the challenger through the offer dialogs: arena, then
// weapon set, then rounds, then a final confirmation. Only one outgoing offer
// may exist at a time.
func (c *Controller) OnDuelRequest(sender *modes.Player, targetID int) {
	target := c.mgr.Player(targetID)
	if target == nil {
		_ = c.pub.Tell(sender.ID, "That player is not online.")
		return
	}
	if targetID == sender.ID {
		_ = c.pub.Tell(sender.ID, "You cannot duel yourself.")
		return
	}
	if sender.OfferSent != nil {
		_ = c.pub.Tell(sender.ID, "You already have an outgoing duel offer. Withdraw it first.")
		return
	}

	draft := &modes.DuelOffer{
		ID:     uuid.NewString(),
		From:   sender.ID,
		To:     targetID,
		Health: offerHealth,
		Armour: offerArmour,
		RoomID: modes.NoRoom,
	}
	c.pickArena(sender, draft)
}

func (c *Controller) pickArena(sender *modes.Player, draft *modes.DuelOffer) {
	ids := sortedIDs(c.arenas.GetAll())
	if len(ids) == 0 {
		_ = c.pub.Tell(sender.ID, "No arenas are configured.")
		return
	}

	items := make([]string, len(ids))
	for i, id := range ids {
		items[i] = c.arenaName(id)
	}
	c.dlg.ShowList(sender.ID, "Duel arena", items, func(choice int, ok bool) {
		if !ok || c.mgr.Player(sender.ID) != sender {
			return
		}
		draft.Arena = ids[choice]
		c.pickWeapons(sender, draft)
	})
}

func (c *Controller) pickWeapons(sender *modes.Player, draft *modes.DuelOffer) {
	ids := sortedIDs(c.weaponSets.GetAll())
	if len(ids) == 0 {
		_ = c.pub.Tell(sender.ID, "No weapon sets are configured.")
		return
	}

	items := make([]string, len(ids))
	for i, id := range ids {
		items[i] = id
		if set := c.weaponSets.Get(id); set != nil && set.Name != "" {
			items[i] = set.Name
		}
	}
	c.dlg.ShowList(sender.ID, "Duel weapons", items, func(choice int, ok bool) {
		if !ok || c.mgr.Player(sender.ID) != sender {
			return
		}
		draft.WeaponSet = ids[choice]
		c.pickRounds(sender, draft)
	})
}

func (c *Controller) pickRounds(sender *modes.Player, draft *modes.DuelOffer) {
	items := make([]string, len(roundChoices))
	for i, n := range roundChoices {
		items[i] = strconv.Itoa(n)
	}
	c.dlg.ShowList(sender.ID, "Rounds", items, func(choice int, ok bool) {
		if !ok || c.mgr.Player(sender.ID) != sender {
			return
		}
		draft.Rounds = roundChoices[choice]
		c.confirmSend(sender, draft)
	})
}

func (c *Controller) confirmSend(sender *modes.Player, draft *modes.DuelOffer) {
	body := fmt.Sprintf("Challenge %s? %s, best of %d.",
		c.playerName(draft.To), c.arenaName(draft.Arena), draft.Rounds)
	c.dlg.ShowConfirm(sender.ID, "Send offer", body, func(yes bool) {
		if !yes || c.mgr.Player(sender.ID) != sender {
			return
		}
		c.sendOffer(sender, draft)
	})
}

// sendOffer finalizes the draft. The target holds an independent copy keyed
// by sender id, so a later withdrawal on one side cannot mutate the other's
// view mid-dialog.
func (c *Controller) sendOffer(sender *modes.Player, draft *modes.DuelOffer) {
	target := c.mgr.Player(draft.To)
	if target == nil {
		_ = c.pub.Tell(sender.ID, "That player is no longer online.")
		return
	}
	if sender.OfferSent != nil {
		_ = c.pub.Tell(sender.ID, "You already have an outgoing duel offer.")
		return
	}

	draft.Sent = true
	draft.SentAt = c.now()
	sender.OfferSent = draft

	mirror := *draft
	target.OffersReceived[sender.ID] = &mirror

	_ = c.pub.Tell(sender.ID, fmt.Sprintf("Duel offer sent to %s.", target.Name))
	_ = c.pub.Tell(target.ID, fmt.Sprintf("%s challenged you to a duel. Open the duel menu to respond.", sender.Name))
}

// Tick sweeps expired offers. Accepted offers live on as room terms and are
// never swept; only open ones older than offerTTL are withdrawn.
func (c *Controller) Tick(ctx context.Context) error {
	cutoff := c.now().Add(-offerTTL)
	c.mgr.ForEachPlayer(func(sender *modes.Player) {
		offer := sender.OfferSent
		if offer == nil || offer.RoomID != modes.NoRoom || !offer.SentAt.Before(cutoff) {
			return
		}
		sender.OfferSent = nil
		if target := c.mgr.Player(offer.To); target != nil {
			delete(target.OffersReceived, sender.ID)
			_ = c.pub.Tell(target.ID, fmt.Sprintf("The duel offer from %s expired.", sender.Name))
		}
		_ = c.pub.Tell(sender.ID, "Your duel offer expired.")
	})
	return nil
}

func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
