package dvsim

// router.go holds the state each router owns, the decision to advertise,
// and the relaxation of its table against the advertisements it receives

import (
	"github.com/iti/rngstream"
	"log/slog"
)

// CountdownSource draws the number of steps a router waits before it advertises again.
// RandInt returns a value uniformly distributed over [low, high], both inclusive.
// *rngstream.RngStream satisfies it.
type CountdownSource interface {
	RandInt(low, high int) int
}

// moduli of the two components of an rngstream state, each of the six
// seed values must be below the modulus of its component and not all zero
const (
	rngstreamM1 = 4294967087
	rngstreamM2 = 4294944443
)

// streamSeed spreads a 64 bit seed over the six values of an rngstream state
func streamSeed(seed int64) []uint64 {
	u := uint64(seed)
	lo, hi := u&0xffffffff, u>>32
	return []uint64{
		lo%(rngstreamM1-1) + 1, hi%(rngstreamM1-1) + 1, (lo^hi)%(rngstreamM1-1) + 1,
		lo%(rngstreamM2-1) + 1, hi%(rngstreamM2-1) + 1, (lo+hi)%(rngstreamM2-1) + 1,
	}
}

// newSeededStream returns an rngstream whose draws depend on seed alone, whatever
// streams the process has created before it
func newSeededStream(name string, seed int64) *rngstream.RngStream {
	rs := rngstream.New(name)
	rs.SetSeed(streamSeed(seed))
	return rs
}

// NewSeededSource returns a CountdownSource whose draws are fixed by seed
func NewSeededSource(seed int64) CountdownSource {
	return newSeededStream("seeded", seed)
}

// SourceFactory creates the CountdownSource of a router
type SourceFactory func(id NodeID, name string) CountdownSource

// seededSources gives router id an rngstream named after it and seeded with seed+id
func seededSources(seed int64) SourceFactory {
	return func(id NodeID, name string) CountdownSource {
		return newSeededStream(name, seed+int64(id))
	}
}

// Router is one node of the simulation. Its table and countdown are changed only
// by its own send and receive calls, its mailbox is written by its neighbors.
type Router struct {
	id   NodeID
	name string
	topo *Topology

	table     Table
	countdown int
	mailbox   *Mailbox

	rng          CountdownSource
	maxCountdown int
	infinity     int

	logger *slog.Logger
}

// newRouter creates the router for node id. Direct routes are set from the topology,
// every other entry, including the one for the router itself, is unreachable.
// A direct link whose cost is at least infinity is left unreachable too.
func newRouter(id NodeID, topo *Topology, cfg *Config, rng CountdownSource, logger *slog.Logger) *Router {
	rtr := new(Router)
	rtr.id = id
	rtr.name = topo.NodeName(id)
	rtr.topo = topo
	rtr.infinity = cfg.InfinityHops
	rtr.maxCountdown = cfg.MaxCountdown
	rtr.mailbox = NewMailbox(cfg.MailboxCapacity)
	rtr.rng = rng
	rtr.logger = logger.With("router", rtr.name)

	rtr.table = newTable(topo.NumNodes(), cfg.InfinityHops)
	for _, nbr := range topo.neighbors(id) {
		cost, _ := topo.CostOf(id, nbr)
		if cost >= cfg.InfinityHops {
			continue
		}
		rtr.table[nbr] = Route{Dest: nbr, NextHop: nbr, Cost: cost}
	}
	rtr.countdown = rtr.drawCountdown()
	return rtr
}

// drawCountdown picks the number of steps to wait, uniformly from [0, maxCountdown]
func (rtr *Router) drawCountdown() int {
	return rtr.rng.RandInt(0, rtr.maxCountdown)
}

// ID returns the router's node id
func (rtr *Router) ID() NodeID {
	return rtr.id
}

// Name returns the router's printable name
func (rtr *Router) Name() string {
	return rtr.name
}

// Countdown returns the number of steps before the router next advertises
func (rtr *Router) Countdown() int {
	return rtr.countdown
}

// Table returns a copy of the router's routing table
func (rtr *Router) Table() Table {
	return rtr.table.Clone()
}

// Mailbox gives access to the router's inbound buffer
func (rtr *Router) Mailbox() *Mailbox {
	return rtr.mailbox
}

// send either counts down or advertises.  When the countdown has expired a snapshot of
// the table is offered to every neighbor through deliver and a new countdown is drawn.
// The return is the number of neighbors whose mailboxes refused the advertisement.
func (rtr *Router) send(step int, deliver func(to NodeID, adv *Advertisement) bool) int {
	if rtr.countdown > 0 {
		rtr.countdown -= 1
		return 0
	}

	adv := newAdvertisement(rtr.id, rtr.table)
	drops := 0
	for _, nbr := range rtr.topo.neighbors(rtr.id) {
		if !deliver(nbr, adv) {
			drops += 1
		}
	}
	rtr.countdown = rtr.drawCountdown()

	rtr.logger.Debug("advertised", "step", step, "drops", drops, "next", rtr.countdown)
	return drops
}

// receive drains the mailbox and relaxes the table against each advertisement in
// arrival order.  A route is replaced only by a strictly cheaper one, reached through
// the router's current cost to the sender.  The entry for the router itself is never
// changed.  The return is the number of entries improved.
func (rtr *Router) receive() int {
	delta := 0
	for _, adv := range rtr.mailbox.DrainAll() {
		sender := adv.Sender
		for _, rt := range adv.Routes {
			if rt.Dest == rtr.id {
				continue
			}
			candidate := rt.Cost + rtr.table[sender].Cost
			if candidate < rtr.table[rt.Dest].Cost {
				rtr.table[rt.Dest].Cost = candidate
				rtr.table[rt.Dest].NextHop = sender
				delta += 1
			}
		}
	}
	if delta > 0 {
		rtr.logger.Debug("relaxed", "delta", delta)
	}
	return delta
}
