package dvsim

// routes.go provides the reference all-pairs shortest path costs a converged
// simulation is checked against, and functions that follow next hops
// through a set of routing tables

import (
	"errors"
	"fmt"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"math"
	"strings"
)

var (
	// ErrNoRoute is reported when a walk meets a router with no route to the destination
	ErrNoRoute = errors.New("no route")

	// ErrRouteLoop is reported when a walk revisits a router before reaching the destination
	ErrRouteLoop = errors.New("routing loop")
)

// The topology is converted into a directed graph of the gonum graph package,
// the edge from i to j weighted by the cost of transmission from i to j.
// A router reaches a destination by paying the cost to a neighbor and then the
// neighbor's cost onwards, so shortest paths in this graph are the costs the
// routers should converge to.

// buildCostGraph returns the gonum representation of topo
func buildCostGraph(topo *Topology) *simple.WeightedDirectedGraph {
	costGraph := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for idx := 0; idx < topo.NumNodes(); idx++ {
		costGraph.AddNode(simple.Node(idx))
	}
	for idx := 0; idx < topo.NumNodes(); idx++ {
		from := NodeID(idx)
		for _, to := range topo.neighbors(from) {
			cost, _ := topo.CostOf(from, to)
			weightedEdge := simple.WeightedEdge{F: simple.Node(from), T: simple.Node(to), W: float64(cost)}
			costGraph.SetWeightedEdge(weightedEdge)
		}
	}
	return costGraph
}

// ReferenceCosts returns the cost of the shortest path between every pair of nodes,
// ref[i][j] being the cost from i to j.  A cost that reaches infinity is reported as
// infinity, as is the cost from a node to itself, matching what the routers hold.
func ReferenceCosts(topo *Topology, infinity int) [][]int {
	allSP := path.DijkstraAllPaths(buildCostGraph(topo))

	n := topo.NumNodes()
	ref := make([][]int, n)
	for from := 0; from < n; from++ {
		ref[from] = make([]int, n)
		for to := 0; to < n; to++ {
			w := allSP.Weight(int64(from), int64(to))
			if from == to || math.IsInf(w, 1) || w >= float64(infinity) {
				ref[from][to] = infinity
				continue
			}
			ref[from][to] = int(w)
		}
	}
	return ref
}

// ReferencePath returns one shortest path from src to dst, both included,
// or nil if dst cannot be reached
func ReferencePath(topo *Topology, src, dst NodeID) []NodeID {
	spTree := path.DijkstraFrom(simple.Node(src), buildCostGraph(topo))
	nodeSeq, _ := spTree.To(int64(dst))
	return convertNodeSeq(nodeSeq)
}

// convertNodeSeq extracts the node ids from a sequence of graph nodes
func convertNodeSeq(nsQ []graph.Node) []NodeID {
	if len(nsQ) == 0 {
		return nil
	}
	rtn := make([]NodeID, 0, len(nsQ))
	for _, node := range nsQ {
		rtn = append(rtn, NodeID(node.ID()))
	}
	return rtn
}

// Mismatch records a table entry whose cost differs from the reference
type Mismatch struct {
	Router NodeID
	Dest   NodeID
	Got    int
	Want   int
}

func (mm Mismatch) String() string {
	return fmt.Sprintf("router %d dest %d: cost %d, shortest %d", mm.Router, mm.Dest, mm.Got, mm.Want)
}

// VerifyTables compares every entry of tables with the reference costs of topo
// and returns the entries that differ
func VerifyTables(topo *Topology, tables []Table, infinity int) []Mismatch {
	ref := ReferenceCosts(topo, infinity)
	mismatches := make([]Mismatch, 0)
	for from, tbl := range tables {
		for _, rt := range tbl {
			if rt.Dest == NodeID(from) {
				continue
			}
			if rt.Cost != ref[from][rt.Dest] {
				mismatches = append(mismatches,
					Mismatch{Router: NodeID(from), Dest: rt.Dest, Got: rt.Cost, Want: ref[from][rt.Dest]})
			}
		}
	}
	return mismatches
}

// TracePath follows next hops from src towards dst through tables and returns the
// routers visited, src and dst included.  The walk fails if it meets a router with
// no route or returns to a router it has already visited.
func TracePath(tables []Table, src, dst NodeID) ([]NodeID, error) {
	hops := []NodeID{src}
	if src == dst {
		return hops, nil
	}
	visited := make(map[NodeID]bool)
	here := src
	for here != dst {
		if visited[here] {
			return hops, fmt.Errorf("%w: from %d to %d", ErrRouteLoop, src, dst)
		}
		visited[here] = true

		nxt := tables[here][dst].NextHop
		if nxt == NoHop {
			return hops, fmt.Errorf("%w: %d has none to %d", ErrNoRoute, here, dst)
		}
		hops = append(hops, nxt)
		here = nxt
	}
	return hops, nil
}

// ShowPath returns a string that lists the names of the routers on a path, comma separated
func ShowPath(topo *Topology, hops []NodeID) string {
	names := make([]string, 0, len(hops))
	for _, id := range hops {
		names = append(names, topo.NodeName(id))
	}
	return strings.Join(names, ",")
}

// PathCost sums the link costs along hops
func PathCost(topo *Topology, hops []NodeID) (int, bool) {
	total := 0
	for idx := 1; idx < len(hops); idx++ {
		cost, present := topo.CostOf(hops[idx-1], hops[idx])
		if !present {
			return 0, false
		}
		total += cost
	}
	return total, true
}
