package command

import (
	"fmt"

	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/console"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/dialogs"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/driver"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/engine"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/idpool"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/listener"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/messaging"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes/arena"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes/deathmatch"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes/duel"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/modes/freeroam"
	"github.com/ChronosXYZ/oasis-gamemode-sub000/internal/timers"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Embedded NATS server carries engine commands, engine events, player
	// notifications, and the mode event bus.
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Asset stores
	arenas, err := cfg.Storage.Arenas.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating arena store: %w", err)
	}
	weaponSets, err := cfg.Storage.WeaponSets.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating weapon set store: %w", err)
	}
	players, err := cfg.Storage.Players.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}

	world := engine.NewBridge(natsServer)
	pub := messaging.NewPublisher(natsServer)
	dlg := dialogs.NewManager(natsServer)
	sched := timers.NewScheduler()

	// All rooms lease their world id from one pool so no two live rooms
	// ever share a world.
	worldIDs := idpool.New()

	mgr := modes.NewManager(pub, dlg, players, cfg.Gamemode.defaultMode())

	fr := freeroam.NewController(mgr, world, pub, cfg.Gamemode.FreeroamSpawns)
	dm := deathmatch.NewController(mgr, world, pub, dlg, arenas, sched, worldIDs, cfg.Gamemode.respawnDelay())
	ar := arena.NewController(mgr, pub, dlg, arenas, weaponSets, modes.Rounds{
		World:     world,
		Sched:     sched,
		Rooms:     modes.NewRoomSet(worldIDs),
		Notifier:  pub,
		Countdown: cfg.Gamemode.roundCountdown(),
	}, cfg.Gamemode.arenaBestOf(), cfg.Gamemode.ArenaLoadout)
	du := duel.NewController(mgr, pub, dlg, arenas, weaponSets, modes.Rounds{
		World:     world,
		Sched:     sched,
		Rooms:     modes.NewRoomSet(worldIDs),
		Notifier:  pub,
		Countdown: cfg.Gamemode.roundCountdown(),
	})

	for _, c := range []modes.Controller{fr, dm, ar, du} {
		if err := mgr.Register(c); err != nil {
			return nil, fmt.Errorf("registering %s controller: %w", c.Mode(), err)
		}
	}

	var opts []driver.DriverOpt
	if tick, ok := cfg.tickInterval(); ok {
		opts = append(opts, driver.WithTickLength(tick))
	}
	drv := driver.NewDriver([]driver.Ticker{sched, du}, opts...)

	feed := engine.NewFeed(natsServer, mgr, drv)
	fanout := messaging.NewFanOut(natsServer, drv, []messaging.Sink{dm, ar, du})

	adm := console.New(drv, mgr, worldIDs)
	adm.AddRooms("deathmatch", dm.Rooms())
	adm.AddRooms("arena", ar.Rooms())
	adm.AddRooms("duel", du.Rooms())
	cm := listener.NewConnectionManager(adm)

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lst, err := l.buildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lst
	}

	return service.WorkerList{
		"nats":        natsServer,
		"driver":      drv,
		"engine-feed": feed,
		"mode-events": fanout,
		"listeners":   &listeners,
	}, nil
}
