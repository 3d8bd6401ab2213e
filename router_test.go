package dvsim

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testRouter(t *testing.T, topo *Topology, name string, cfg *Config, rng CountdownSource) *Router {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return newRouter(id(t, topo, name), topo, cfg, rng, quiet)
}

func TestRouterInitialTable(t *testing.T) {
	topo := buildTopo(t, scenarioB())
	rtr := testRouter(t, topo, "A", nil, constSource{})

	want := Table{
		{Dest: 0, NextHop: NoHop, Cost: DefaultInfinityHops},
		{Dest: 1, NextHop: 1, Cost: 1},
		// the direct link to C costs as much as infinity
		{Dest: 2, NextHop: NoHop, Cost: DefaultInfinityHops},
	}
	if diff := cmp.Diff(want, rtr.Table()); diff != "" {
		t.Errorf("initial table (-want +got):\n%s", diff)
	}
}

func TestRouterCountdown(t *testing.T) {
	topo := buildTopo(t, scenarioA())
	rtr := testRouter(t, topo, "A", nil, &seqSource{vals: []int{2, 0, 4}})
	assert.Equal(t, 2, rtr.Countdown())

	delivered := 0
	deliver := func(to NodeID, adv *Advertisement) bool {
		delivered += 1
		return true
	}

	assert.Equal(t, 0, rtr.send(1, deliver))
	assert.Equal(t, 1, rtr.Countdown())
	assert.Equal(t, 0, rtr.send(2, deliver))
	assert.Equal(t, 0, rtr.Countdown())
	assert.Equal(t, 0, delivered, "nothing sent while counting down")

	assert.Equal(t, 0, rtr.send(3, deliver))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 0, rtr.Countdown(), "fresh countdown drawn after sending")

	assert.Equal(t, 0, rtr.send(4, deliver))
	assert.Equal(t, 2, delivered)
	assert.Equal(t, 4, rtr.Countdown())
}

func TestRouterSendCountsDrops(t *testing.T) {
	topo := buildTopo(t, DefaultTopoDesc())
	rtr := testRouter(t, topo, "B", nil, constSource{})

	got := []NodeID{}
	deliver := func(to NodeID, adv *Advertisement) bool {
		got = append(got, to)
		return to != id(t, topo, "D")
	}
	assert.Equal(t, 1, rtr.send(1, deliver))
	assert.Equal(t, topo.NeighborsOf(rtr.ID()), got)
}

func TestAdvertisementIsSnapshot(t *testing.T) {
	topo := buildTopo(t, scenarioA())
	rtr := testRouter(t, topo, "A", nil, constSource{})

	var sent *Advertisement
	rtr.send(1, func(to NodeID, adv *Advertisement) bool {
		sent = adv
		return true
	})
	require.NotNil(t, sent)

	rtr.table[1].Cost = 1
	assert.Equal(t, 3, sent.Routes[1].Cost)
	assert.Equal(t, rtr.ID(), sent.Sender)
}

func TestRouterReceiveRelaxes(t *testing.T) {
	topo := buildTopo(t, scenarioB())
	a := testRouter(t, topo, "A", nil, constSource{})
	b := testRouter(t, topo, "B", nil, constSource{})

	require.True(t, a.mailbox.TryPush(newAdvertisement(b.ID(), b.table)))
	assert.Equal(t, 1, a.receive())

	tbl := a.Table()
	assert.Equal(t, Route{Dest: 2, NextHop: 1, Cost: 2}, tbl[2])

	// B's route to A does not touch A's own entry
	assert.Equal(t, Route{Dest: 0, NextHop: NoHop, Cost: DefaultInfinityHops}, tbl[0])

	// nothing left to relax against
	assert.Equal(t, 0, a.receive())
}

func TestRelaxationUsesCurrentCostToSender(t *testing.T) {
	td := CreateTopoDesc("detour", "A", "B", "C", "D")
	td.AddLink("A", "B", 1, 1)
	td.AddLink("B", "C", 1, 1)
	td.AddLink("A", "C", 4, 4)
	td.AddLink("C", "D", 1, 1)
	topo := buildTopo(t, td)

	cfg := DefaultConfig()
	cfg.InfinityHops = 10
	a := testRouter(t, topo, "A", cfg, constSource{})
	b := testRouter(t, topo, "B", cfg, constSource{})
	c := testRouter(t, topo, "C", cfg, constSource{})

	a.mailbox.TryPush(newAdvertisement(b.ID(), b.table))
	a.mailbox.TryPush(newAdvertisement(c.ID(), c.table))
	assert.Equal(t, 2, a.receive())

	tbl := a.Table()
	assert.Equal(t, Route{Dest: 2, NextHop: 1, Cost: 2}, tbl[2])

	// D is reached through C at A's cost to C after B's advertisement, 2 and not 4
	assert.Equal(t, Route{Dest: 3, NextHop: 2, Cost: 3}, tbl[3])
}

func TestRelaxationKeepsFirstOfEqualRoutes(t *testing.T) {
	topo := buildTopo(t, DefaultTopoDesc())
	a := testRouter(t, topo, "A", nil, constSource{})
	f := id(t, topo, "F")

	fromB := newTable(6, DefaultInfinityHops)
	fromB[f] = Route{Dest: f, NextHop: id(t, topo, "D"), Cost: 2}
	fromC := newTable(6, DefaultInfinityHops)
	fromC[f] = Route{Dest: f, NextHop: id(t, topo, "E"), Cost: 2}

	a.mailbox.TryPush(newAdvertisement(id(t, topo, "B"), fromB))
	a.mailbox.TryPush(newAdvertisement(id(t, topo, "C"), fromC))
	assert.Equal(t, 1, a.receive())
	assert.Equal(t, Route{Dest: f, NextHop: id(t, topo, "B"), Cost: 3}, a.Table()[f])
}

func TestRelaxationNeverRaisesCost(t *testing.T) {
	topo := buildTopo(t, scenarioB())
	a := testRouter(t, topo, "A", nil, constSource{})

	worse := newTable(3, DefaultInfinityHops)
	worse[1] = Route{Dest: 1, NextHop: 1, Cost: 4}
	a.mailbox.TryPush(newAdvertisement(1, worse))

	before := a.Table()
	assert.Equal(t, 0, a.receive())
	assert.Equal(t, before, a.Table())
}

func TestSeededSource(t *testing.T) {
	s1 := NewSeededSource(42)
	s2 := NewSeededSource(42)
	for idx := 0; idx < 100; idx++ {
		v := s1.RandInt(0, 4)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 4)
		assert.Equal(t, v, s2.RandInt(0, 4))
	}
	assert.Equal(t, 3, s1.RandInt(3, 3))
}
