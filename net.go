package dvsim

// net.go contains the in-memory network that carries advertisements
// from a router to the mailboxes of its neighbors, and the counters
// the driver reports from

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// network binds the routers of a topology together
type network struct {
	topo    *Topology
	routers []*Router

	// advertisements refused by a full mailbox, never decreases
	drops atomic.Int64

	// advertisements offered to a neighbor, accepted or not
	offered atomic.Int64
}

// createNetwork is a constructor, one router per node of the topology
func createNetwork(topo *Topology, cfg *Config, sources SourceFactory, logger *slog.Logger) *network {
	ns := new(network)
	ns.topo = topo
	ns.routers = make([]*Router, topo.NumNodes())
	for idx := range ns.routers {
		id := NodeID(idx)
		ns.routers[idx] = newRouter(id, topo, cfg, sources(id, topo.NodeName(id)), logger)
	}
	return ns
}

// deliver offers adv to the mailbox of router 'to', counting a refusal as a drop
func (ns *network) deliver(to NodeID, adv *Advertisement) bool {
	ns.offered.Add(1)
	if ns.routers[to].mailbox.TryPush(adv) {
		return true
	}
	ns.drops.Add(1)
	return false
}

// Drops returns the cumulative number of dropped advertisements
func (ns *network) Drops() int64 {
	return ns.drops.Load()
}

// Offered returns the cumulative number of advertisements offered to a mailbox
func (ns *network) Offered() int64 {
	return ns.offered.Load()
}

// sendPhase gives every router the chance to advertise, in id order,
// and returns the number of drops this phase caused
func (ns *network) sendPhase(step int) int {
	drops := 0
	for _, rtr := range ns.routers {
		drops += rtr.send(step, ns.deliver)
	}
	return drops
}

// receivePhase has every router relax against its mailbox, in id order,
// and returns the number of table entries improved
func (ns *network) receivePhase() int {
	delta := 0
	for _, rtr := range ns.routers {
		delta += rtr.receive()
	}
	return delta
}

// sendPhaseConcurrent runs each router's send in its own goroutine and
// returns only once all of them have finished
func (ns *network) sendPhaseConcurrent(step int) int {
	var wg sync.WaitGroup
	var drops atomic.Int64
	for _, rtr := range ns.routers {
		wg.Add(1)
		go func(rtr *Router) {
			defer wg.Done()
			drops.Add(int64(rtr.send(step, ns.deliver)))
		}(rtr)
	}
	wg.Wait()
	return int(drops.Load())
}

// receivePhaseConcurrent runs each router's receive in its own goroutine and
// returns only once all of them have finished
func (ns *network) receivePhaseConcurrent() int {
	var wg sync.WaitGroup
	deltas := make([]int, len(ns.routers))
	for idx, rtr := range ns.routers {
		wg.Add(1)
		go func(idx int, rtr *Router) {
			defer wg.Done()
			deltas[idx] = rtr.receive()
		}(idx, rtr)
	}
	wg.Wait()

	delta := 0
	for _, d := range deltas {
		delta += d
	}
	return delta
}

// tables returns a copy of every router's table, indexed by router id
func (ns *network) tables() []Table {
	rtn := make([]Table, len(ns.routers))
	for idx, rtr := range ns.routers {
		rtn[idx] = rtr.table.Clone()
	}
	return rtn
}
