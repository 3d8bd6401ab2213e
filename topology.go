package dvsim

// topology.go holds the immutable run-time representation of which nodes are
// adjacent and what it costs to transmit between them

import (
	"fmt"
	"golang.org/x/exp/slices"
)

// Topology is built once from a TopoDesc and never changes afterwards.
// Every method is a pure query.
type Topology struct {
	name   string
	names  []string
	byName map[string]NodeID

	// nbrs[i] lists the neighbors of i in ascending id order
	nbrs [][]NodeID

	// cost[i][j] is the cost from i to neighbor j
	cost []map[NodeID]int
}

// NewTopology validates the description and builds a Topology from it.
// Every problem found is reported together in a *ConfigurationError.
func NewTopology(td *TopoDesc) (*Topology, error) {
	if td == nil {
		return nil, &ConfigurationError{Subject: "topology", Problems: []error{fmt.Errorf("%w: no description", ErrBadParameter)}}
	}
	subject := td.Name
	if len(subject) == 0 {
		subject = "topology"
	}
	problems := make([]error, 0)

	topo := new(Topology)
	topo.name = td.Name
	topo.names = append([]string{}, td.Nodes...)
	topo.byName = make(map[string]NodeID)
	topo.nbrs = make([][]NodeID, len(td.Nodes))
	topo.cost = make([]map[NodeID]int, len(td.Nodes))

	for idx, name := range td.Nodes {
		if _, present := topo.byName[name]; present {
			problems = append(problems, fmt.Errorf("%w: %s", ErrDuplicateNode, name))
			continue
		}
		topo.byName[name] = NodeID(idx)
		topo.cost[idx] = make(map[NodeID]int)
	}

	for _, link := range td.Links {
		from, fok := topo.byName[link.From]
		to, tok := topo.byName[link.To]
		if !fok || !tok {
			problems = append(problems, fmt.Errorf("%w: link %s-%s", ErrUnknownNode, link.From, link.To))
			continue
		}
		if from == to {
			problems = append(problems, fmt.Errorf("%w: %s", ErrSelfAdjacent, link.From))
			continue
		}
		if link.Cost <= 0 {
			problems = append(problems,
				fmt.Errorf("%w: C(%s,%s)=%d", ErrNonPositiveCost, link.From, link.To, link.Cost))
			continue
		}
		if _, present := topo.cost[from][to]; present {
			problems = append(problems, fmt.Errorf("%w: %s-%s", ErrDuplicateLink, link.From, link.To))
			continue
		}
		topo.cost[from][to] = link.Cost
		topo.nbrs[from] = append(topo.nbrs[from], to)
	}

	// every adjacency must be present in both directions
	for from := range topo.nbrs {
		for _, to := range topo.nbrs[from] {
			if _, present := topo.cost[to][NodeID(from)]; !present {
				problems = append(problems,
					fmt.Errorf("%w: %s lists %s but not the reverse", ErrAsymmetric, topo.names[from], topo.names[to]))
			}
		}
		slices.Sort(topo.nbrs[from])
	}

	if err := newConfigurationError(subject, problems); err != nil {
		return nil, err
	}
	return topo, nil
}

// Name returns the name given in the description
func (topo *Topology) Name() string {
	return topo.name
}

// NumNodes returns the number of nodes
func (topo *Topology) NumNodes() int {
	return len(topo.names)
}

// NodeName returns the printable name of node id
func (topo *Topology) NodeName(id NodeID) string {
	if id < 0 || int(id) >= len(topo.names) {
		return "-"
	}
	return topo.names[id]
}

// NodeNames returns a copy of the node names, indexed by id
func (topo *Topology) NodeNames() []string {
	return append([]string{}, topo.names...)
}

// Lookup returns the id of the named node
func (topo *Topology) Lookup(name string) (NodeID, bool) {
	id, present := topo.byName[name]
	return id, present
}

// NeighborsOf returns the neighbors of id in ascending order, nil for an unknown id.
// The caller gets its own copy.
func (topo *Topology) NeighborsOf(id NodeID) []NodeID {
	if id < 0 || int(id) >= len(topo.nbrs) {
		return nil
	}
	return slices.Clone(topo.nbrs[id])
}

// neighbors returns the shared slice, for the routers' use only
func (topo *Topology) neighbors(id NodeID) []NodeID {
	return topo.nbrs[id]
}

// CostOf returns the cost from id to nbr, with false if they are not adjacent
func (topo *Topology) CostOf(id, nbr NodeID) (int, bool) {
	if id < 0 || int(id) >= len(topo.cost) {
		return 0, false
	}
	cost, present := topo.cost[id][nbr]
	return cost, present
}

// Adjacent is true when a link joins id and nbr
func (topo *Topology) Adjacent(id, nbr NodeID) bool {
	_, present := topo.CostOf(id, nbr)
	return present
}

// Desc recreates a description of the topology, links in ascending (from,to) order
func (topo *Topology) Desc() *TopoDesc {
	td := CreateTopoDesc(topo.name, topo.names...)
	for from := range topo.nbrs {
		for _, to := range topo.nbrs[from] {
			td.AddDirected(topo.names[from], topo.names[to], topo.cost[from][to])
		}
	}
	return td
}
