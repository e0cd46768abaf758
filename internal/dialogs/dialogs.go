// Package dialogs drives player-facing list and confirmation dialogs. The
// gamemode core only interprets the player's choice; rendering is done by
// the hosting engine.
package dialogs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
)

// ListResponder receives the selected item index. ok is false when the
// player dismissed the dialog without choosing.
type ListResponder func(choice int, ok bool)

// ConfirmResponder receives the player's yes/no answer.
type ConfirmResponder func(yes bool)

// Presenter shows dialogs to players and invokes the responder with the
// player's choice.
type Presenter interface {
	ShowList(playerID int, title string, items []string, respond ListResponder)
	ShowConfirm(playerID int, title, body string, respond ConfirmResponder)
}

type kind int

const (
	kindList kind = iota
	kindConfirm
)

type pending struct {
	player  int
	kind    kind
	items   int
	list    ListResponder
	confirm ConfirmResponder
}

// showCommand is the engine-bound dialog instruction.
type showCommand struct {
	Op     string   `json:"op"`
	Player int      `json:"player"`
	Dialog string   `json:"dialog"`
	Kind   string   `json:"kind"`
	Title  string   `json:"title"`
	Body   string   `json:"body,omitempty"`
	Items  []string `json:"items,omitempty"`
}

// Manager shows dialogs over the engine bridge and routes dialog response
// events back to the waiting responder. A player has at most one pending
// dialog; showing a new one silently replaces it. All methods run on the
// simulation goroutine.
type Manager struct {
	pub      engine.Publisher
	byID     map[string]*pending
	byPlayer map[int]string
}

func NewManager(pub engine.Publisher) *Manager {
	return &Manager{
		pub:      pub,
		byID:     map[string]*pending{},
		byPlayer: map[int]string{},
	}
}

func (m *Manager) ShowList(playerID int, title string, items []string, respond ListResponder) {
	id := m.register(playerID, &pending{
		player: playerID,
		kind:   kindList,
		items:  len(items),
		list:   respond,
	})

	m.send(showCommand{
		Op:     "show_dialog",
		Player: playerID,
		Dialog: id,
		Kind:   "list",
		Title:  title,
		Items:  items,
	})
}

func (m *Manager) ShowConfirm(playerID int, title, body string, respond ConfirmResponder) {
	id := m.register(playerID, &pending{
		player:  playerID,
		kind:    kindConfirm,
		confirm: respond,
	})

	m.send(showCommand{
		Op:     "show_dialog",
		Player: playerID,
		Dialog: id,
		Kind:   "confirm",
		Title:  title,
		Body:   body,
	})
}

// HandleResponse resolves a pending dialog. Responses for unknown or stale
// dialog ids, or from the wrong player, are dropped.
func (m *Manager) HandleResponse(playerID int, dialogID string, choice int, accepted bool) {
	p, ok := m.byID[dialogID]
	if !ok || p.player != playerID {
		return
	}
	m.remove(dialogID)

	switch p.kind {
	case kindList:
		if !accepted || choice < 0 || choice >= p.items {
			p.list(0, false)
			return
		}
		p.list(choice, true)
	case kindConfirm:
		p.confirm(accepted)
	}
}

// ClearPlayer drops any pending dialog for a disconnecting player without
// invoking its responder.
func (m *Manager) ClearPlayer(playerID int) {
	if id, ok := m.byPlayer[playerID]; ok {
		m.remove(id)
	}
}

func (m *Manager) register(playerID int, p *pending) string {
	if old, ok := m.byPlayer[playerID]; ok {
		m.remove(old)
	}

	id := uuid.New().String()
	m.byID[id] = p
	m.byPlayer[playerID] = id
	return id
}

func (m *Manager) remove(id string) {
	p, ok := m.byID[id]
	if !ok {
		return
	}
	delete(m.byID, id)
	if m.byPlayer[p.player] == id {
		delete(m.byPlayer, p.player)
	}
}

func (m *Manager) send(cmd showCommand) {
	data, err := json.Marshal(cmd)
	if err != nil {
		// The command is built from plain values; this cannot fail in
		// practice.
		return
	}
	_ = m.pub.Publish(engine.CommandSubject, data)
}

// Fake is a Presenter for tests. It records shown dialogs and lets the test
// drive responses synchronously.
type Fake struct {
	Lists    []FakeList
	Confirms []FakeConfirm
}

type FakeList struct {
	Player  int
	Title   string
	Items   []string
	respond ListResponder
}

type FakeConfirm struct {
	Player  int
	Title   string
	Body    string
	respond ConfirmResponder
}

func (f *Fake) ShowList(playerID int, title string, items []string, respond ListResponder) {
	f.Lists = append(f.Lists, FakeList{Player: playerID, Title: title, Items: items, respond: respond})
}

func (f *Fake) ShowConfirm(playerID int, title, body string, respond ConfirmResponder) {
	f.Confirms = append(f.Confirms, FakeConfirm{Player: playerID, Title: title, Body: body, respond: respond})
}

// Answer resolves the most recent list dialog.
func (f *Fake) Answer(choice int, ok bool) error {
	if len(f.Lists) == 0 {
		return fmt.Errorf("no list dialog shown")
	}
	d := f.Lists[len(f.Lists)-1]
	d.respond(choice, ok)
	return nil
}

// AnswerConfirm resolves the most recent confirmation dialog.
func (f *Fake) AnswerConfirm(yes bool) error {
	if len(f.Confirms) == 0 {
		return fmt.Errorf("no confirm dialog shown")
	}
	d := f.Confirms[len(f.Confirms)-1]
	d.respond(yes)
	return nil
}
