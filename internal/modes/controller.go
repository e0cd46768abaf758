package modes

// Controller owns the roster of players currently in one mode, and zero or
// more rooms. One controller is registered per mode at startup.
type Controller interface {
	Mode() Mode

	// OnModeSelect starts the mode's own entry flow (room list dialog,
	// queue confirmation, ...). It must eventually call back into
	// Manager.JoinMode or end the flow.
	OnModeSelect(p *Player)

	// OnModeJoin adds the player to the controller's roster. A malformed
	// or incomplete data bag is rejected with a UserError and must leave
	// no state behind.
	OnModeJoin(p *Player, data JoinData) error

	// OnModeLeave removes the player from the roster and from any room,
	// tearing the room down if they were its last member. It is called
	// from mode switches, disconnects and eliminations alike and must be
	// idempotent.
	OnModeLeave(p *Player)

	// OnPlayerLoad and OnPlayerSave run once per session around the
	// persistence boundary. Controllers only touch their own section of
	// the record.
	OnPlayerLoad(p *Player, rec *PlayerRecord)
	OnPlayerSave(p *Player, rec *PlayerRecord)
}

// DeathHandler is implemented by controllers that react to member deaths.
type DeathHandler interface {
	// OnPlayerDeath is invoked for the victim's current mode. killer is
	// nil for environmental deaths.
	OnPlayerDeath(victim, killer *Player)
}

// DamageHandler is implemented by controllers that track damage dealt.
type DamageHandler interface {
	OnPlayerDamage(victim, attacker *Player, amount float64)
}

// SpawnHandler is implemented by controllers that react to engine spawns.
type SpawnHandler interface {
	OnPlayerSpawn(p *Player)
}

// DisconnectHandler is implemented by controllers that must clean up state
// for players outside their roster, e.g. pending duel offers. It is invoked
// on every controller for every disconnect, after the player has left their
// current mode.
type DisconnectHandler interface {
	OnPlayerDisconnect(p *Player)
}

// DuelRequestHandler is implemented by the duel controller to receive
// offer-creation requests.
type DuelRequestHandler interface {
	OnDuelRequest(sender *Player, targetID int)
}
