package dvsim

// render.go writes routing tables as text, the way they are shown while a run is
// watched, and draws a topology with the routes towards one destination as SVG

import (
	"fmt"
	svg "github.com/ajstarks/svgo"
	"io"
	"math"
)

// WriteStepHeader writes the one line summary shown above the tables of a step
func WriteStepHeader(w io.Writer, rep StepReport) error {
	_, err := fmt.Fprintf(w, "Simulating... (step %d) (dropped: %d) (delta: %d)\n\n", rep.Step, rep.Drops, rep.Delta)
	return err
}

// WriteTables writes one line per route, C(X,Y)=cost via Z, or C(X,Y)=INF for an unreachable
// destination, with a blank line after each router.  Routes to the router itself are skipped.
func WriteTables(w io.Writer, topo *Topology, tables []Table) error {
	for from, tbl := range tables {
		src := topo.NodeName(NodeID(from))
		for _, rt := range tbl {
			if rt.Dest == NodeID(from) {
				continue
			}
			var err error
			if rt.Reachable() {
				_, err = fmt.Fprintf(w, "C(%s,%s)=%d via %s\n", src, topo.NodeName(rt.Dest), rt.Cost, topo.NodeName(rt.NextHop))
			} else {
				_, err = fmt.Fprintf(w, "C(%s,%s)=INF\n", src, topo.NodeName(rt.Dest))
			}
			if err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteResult writes the termination report
func WriteResult(w io.Writer, rslt *Result) error {
	var err error
	if rslt.Converged {
		_, err = fmt.Fprintf(w, "Converged at step %d, tables stable after %d steps, %d of %d advertisements dropped.\n",
			rslt.Steps, rslt.StableAfter, rslt.Drops, rslt.Offered)
	} else {
		_, err = fmt.Fprintf(w, "Stopped at step %d without converging, %d of %d advertisements dropped.\n",
			rslt.Steps, rslt.Drops, rslt.Offered)
	}
	return err
}

// svg drawing parameters
const (
	svgWidth    = 600
	svgHeight   = 600
	svgRadius   = 220
	svgNodeSize = 24
)

// circularLayout places the nodes evenly on a circle, node 0 on the left
func circularLayout(n int) [][2]int {
	pos := make([][2]int, n)
	if n == 0 {
		return pos
	}
	alpha := 2 * math.Pi / float64(n)
	for idx := 0; idx < n; idx++ {
		angle := math.Pi + float64(idx)*alpha
		pos[idx][0] = svgWidth/2 + int(svgRadius*math.Cos(angle))
		pos[idx][1] = svgHeight/2 + int(svgRadius*math.Sin(angle))
	}
	return pos
}

// WriteSVG draws the topology, each link labelled with its two costs, and marks
// the next hop every router uses towards dest
func WriteSVG(w io.Writer, topo *Topology, tables []Table, dest NodeID) {
	canvas := svg.New(w)
	canvas.Start(svgWidth, svgHeight)
	canvas.Title(fmt.Sprintf("routes to %s in %s", topo.NodeName(dest), topo.Name()))
	canvas.Rect(0, 0, svgWidth, svgHeight, "fill:white")

	pos := circularLayout(topo.NumNodes())

	// links, drawn once per undirected pair
	for from := 0; from < topo.NumNodes(); from++ {
		for _, to := range topo.neighbors(NodeID(from)) {
			if int(to) < from {
				continue
			}
			a, b := pos[from], pos[to]
			canvas.Line(a[0], a[1], b[0], b[1], "stroke:gray;stroke-width:1")
			costAB, _ := topo.CostOf(NodeID(from), to)
			costBA, _ := topo.CostOf(to, NodeID(from))
			canvas.Text((a[0]+b[0])/2, (a[1]+b[1])/2-4, fmt.Sprintf("%d/%d", costAB, costBA),
				"font-size:12px;text-anchor:middle;fill:gray")
		}
	}

	// next hops towards dest
	for from, tbl := range tables {
		if NodeID(from) == dest || int(dest) >= len(tbl) {
			continue
		}
		rt := tbl[dest]
		if !rt.Reachable() {
			continue
		}
		a, b := pos[from], pos[rt.NextHop]
		canvas.Line(a[0], a[1], b[0], b[1], "stroke:steelblue;stroke-width:4;stroke-opacity:0.6")
	}

	for idx := 0; idx < topo.NumNodes(); idx++ {
		fill := "fill:white;stroke:black;stroke-width:2"
		if NodeID(idx) == dest {
			fill = "fill:lightsteelblue;stroke:black;stroke-width:2"
		}
		canvas.Circle(pos[idx][0], pos[idx][1], svgNodeSize, fill)
		canvas.Text(pos[idx][0], pos[idx][1]+5, topo.NodeName(NodeID(idx)), "font-size:16px;text-anchor:middle")
	}
	canvas.End()
}
