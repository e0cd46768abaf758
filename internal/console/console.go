// Package console is the operator surface: a line-oriented admin session
// served over telnet. Commands read live gamemode state through the
// simulation goroutine, so the console never races the tick loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/display"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/idpool"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
)

const evalTimeout = 2 * time.Second

// Runner funnels console reads onto the simulation goroutine.
type Runner interface {
	Do(func())
}

type roomSection struct {
	name string
	set  *modes.RoomSet
}

type Console struct {
	run      Runner
	mgr      *modes.Manager
	worldIDs *idpool.Pool
	sections []roomSection
}

func New(run Runner, mgr *modes.Manager, worldIDs *idpool.Pool) *Console {
	return &Console{
		run:      run,
		mgr:      mgr,
		worldIDs: worldIDs,
	}
}

// AddRooms registers a mode's room table for the rooms and status commands.
func (c *Console) AddRooms(name string, set *modes.RoomSet) {
	c.sections = append(c.sections, roomSection{name: name, set: set})
}

func (c *Console) RunSession(ctx context.Context, conn io.ReadWriter) error {
	fmt.Fprint(conn, display.Wrap("oasis admin console. Type 'help' for commands.\n"))

	scanner := bufio.NewScanner(conn)
	for {
		fmt.Fprint(conn, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			fmt.Fprint(conn, "bye\n")
			return nil
		case "help":
			fmt.Fprint(conn, helpText)
		case "status":
			fmt.Fprint(conn, c.eval(c.status))
		case "players":
			fmt.Fprint(conn, c.eval(c.players))
		case "rooms":
			fmt.Fprint(conn, c.eval(c.rooms))
		case "kick":
			if len(fields) != 2 {
				fmt.Fprint(conn, "usage: kick <player-id>\n")
				continue
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprint(conn, "usage: kick <player-id>\n")
				continue
			}
			fmt.Fprint(conn, c.eval(func() string { return c.kick(id) }))
		default:
			fmt.Fprintf(conn, "unknown command %q; type 'help'\n", fields[0])
		}
	}
}

const helpText = `commands:
  status           mode rosters, room counts, leased worlds
  players          connected players and their modes
  rooms            live rooms per mode
  kick <id>        drop a player from the gamemode
  quit             close this session
`

// eval runs fn on the simulation goroutine and waits for its output.
func (c *Console) eval(fn func() string) string {
	out := make(chan string, 1)
	c.run.Do(func() { out <- fn() })

	select {
	case s := <-out:
		return s
	case <-time.After(evalTimeout):
		slog.Warn("console command timed out")
		return "timed out\n"
	}
}

func (c *Console) status() string {
	var b strings.Builder

	count := 0
	byMode := map[modes.Mode]int{}
	c.mgr.ForEachPlayer(func(p *modes.Player) {
		count++
		byMode[p.Current]++
	})
	fmt.Fprintf(&b, "players: %d\n", count)

	ms := make([]string, 0, len(byMode))
	for m := range byMode {
		ms = append(ms, m.String())
	}
	sort.Strings(ms)
	for _, m := range ms {
		fmt.Fprintf(&b, "  %-12s %d\n", m, byMode[modes.Mode(m)])
	}

	for _, sec := range c.sections {
		fmt.Fprintf(&b, "%s rooms: %d\n", sec.name, sec.set.Len())
	}
	fmt.Fprintf(&b, "worlds leased: %d\n", c.worldIDs.Leased())

	return b.String()
}

func (c *Console) players() string {
	var b strings.Builder
	ids := []int{}
	c.mgr.ForEachPlayer(func(p *modes.Player) {
		ids = append(ids, p.ID)
	})
	sort.Ints(ids)

	for _, id := range ids {
		p := c.mgr.Player(id)
		if p == nil {
			continue
		}
		fmt.Fprintf(&b, "%4d  %-20s %s\n", p.ID, p.Name, p.Current)
	}
	if len(ids) == 0 {
		b.WriteString("no players connected\n")
	}
	return b.String()
}

func (c *Console) rooms() string {
	var b strings.Builder
	total := 0
	for _, sec := range c.sections {
		sec.set.ForEach(func(r *modes.Room) {
			total++
			fmt.Fprintf(&b, "%s/%d  arena=%s world=%d round=%d/%d members=%v\n",
				sec.name, r.ID, r.ArenaID, r.WorldID, r.Round, r.MaxRounds, r.Members())
		})
	}
	if total == 0 {
		b.WriteString("no live rooms\n")
	}
	return b.String()
}

func (c *Console) kick(id int) string {
	p := c.mgr.Player(id)
	if p == nil {
		return fmt.Sprintf("no player %d\n", id)
	}
	name := p.Name
	c.mgr.HandleDisconnect(id)
	return fmt.Sprintf("kicked %s (%d)\n", name, id)
}
