package dvsim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// constSource always draws the same countdown
type constSource struct {
	v int
}

func (cs constSource) RandInt(low, high int) int {
	return min(max(cs.v, low), high)
}

// seqSource draws the values of a list in turn, starting over when it runs out
type seqSource struct {
	vals []int
	idx  int
}

func (ss *seqSource) RandInt(low, high int) int {
	v := ss.vals[ss.idx%len(ss.vals)]
	ss.idx += 1
	return min(max(v, low), high)
}

// everyStep makes every router advertise in every step
func everyStep(id NodeID, name string) CountdownSource {
	return constSource{v: 0}
}

func buildTopo(t *testing.T, td *TopoDesc) *Topology {
	t.Helper()
	topo, err := NewTopology(td)
	require.NoError(t, err)
	return topo
}

func buildDriver(t *testing.T, td *TopoDesc, cfg *Config, opts ...DriverOption) *Driver {
	t.Helper()
	d, err := NewDriver(buildTopo(t, td), cfg, opts...)
	require.NoError(t, err)
	return d
}

func scenarioA() *TopoDesc {
	td := CreateTopoDesc("direct", "A", "B")
	td.AddLink("A", "B", 3, 3)
	return td
}

func scenarioB() *TopoDesc {
	td := CreateTopoDesc("triangle", "A", "B", "C")
	td.AddLink("A", "B", 1, 1)
	td.AddLink("B", "C", 1, 1)
	td.AddLink("A", "C", 5, 5)
	return td
}

func id(t *testing.T, topo *Topology, name string) NodeID {
	t.Helper()
	nid, present := topo.Lookup(name)
	require.True(t, present, "no node %s", name)
	return nid
}
