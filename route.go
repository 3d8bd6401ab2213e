package dvsim

// route.go defines the entries of a routing table and the advertisements
// routers exchange

import (
	"fmt"
	"strings"
)

// NodeID identifies a router. Ids run from 0 to N-1 in the order
// the nodes are listed in the topology description.
type NodeID int

// NoHop is the next hop of a route to an unreachable destination
const NoHop NodeID = -1

// Route is one routing table entry
type Route struct {
	Dest    NodeID `json:"dest" yaml:"dest"`
	NextHop NodeID `json:"nexthop" yaml:"nexthop"`
	Cost    int    `json:"cost" yaml:"cost"`
}

// Reachable is true when the route has a next hop
func (rt Route) Reachable() bool {
	return rt.NextHop != NoHop
}

// Table is a routing table, indexed by destination id
type Table []Route

// newTable creates a table of n entries, all of them unreachable
func newTable(n int, infinity int) Table {
	tbl := make(Table, n)
	for idx := range tbl {
		tbl[idx] = Route{Dest: NodeID(idx), NextHop: NoHop, Cost: infinity}
	}
	return tbl
}

// Clone returns a copy that shares no storage with tbl
func (tbl Table) Clone() Table {
	if tbl == nil {
		return nil
	}
	rtn := make(Table, len(tbl))
	copy(rtn, tbl)
	return rtn
}

// String renders the table as (dest,nexthop,cost) triples, used in log messages
func (tbl Table) String() string {
	parts := make([]string, 0, len(tbl))
	for _, rt := range tbl {
		if rt.Reachable() {
			parts = append(parts, fmt.Sprintf("(%d,%d,%d)", rt.Dest, rt.NextHop, rt.Cost))
		} else {
			parts = append(parts, fmt.Sprintf("(%d,-,%d)", rt.Dest, rt.Cost))
		}
	}
	return strings.Join(parts, " ")
}

// Advertisement carries a snapshot of the sender's routing table.
// Nothing holds a reference to the sender's live table, so later changes
// to that table do not show through.
type Advertisement struct {
	Sender NodeID
	Routes Table
}

// newAdvertisement is a constructor
func newAdvertisement(sender NodeID, tbl Table) *Advertisement {
	return &Advertisement{Sender: sender, Routes: tbl.Clone()}
}
