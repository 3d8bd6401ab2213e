package main

import (
	"bytes"
	"context"
	"fmt"
	"github.com/iti/dvsim"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"time"
)

var (
	interactive bool
	watch       bool
	concurrent  bool
	delay       time.Duration
	seed        int64
	virtualStep float64
	tracePath   string
	svgPath     string
	svgDest     string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation to convergence",
	Long: `Builds the routers of the topology and advances the simulation until
no routing table has changed for the configured number of steps. With --interactive
the cost of every link is asked for on the terminal, entering 0 fills the remaining
costs automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closeLog, err := commandLogger(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		syn, err := inputFiles()
		if err != nil {
			return err
		}
		if _, err := dvsim.CheckOutputFiles([]string{tracePath, svgPath}); err != nil {
			return err
		}

		var provider dvsim.CostProvider
		if interactive {
			fmt.Println("Enter the cost of transmission between each pair of routers.")
			fmt.Println("\tTo fill the rest of the costs automatically, enter 0 at any point.")
			provider = dvsim.ScannerCostProvider(os.Stdin, os.Stdout)
		}

		adjust := func(cfg *dvsim.Config) {
			if cmd.Flags().Changed("concurrent") {
				cfg.Concurrent = concurrent
			}
			if cmd.Flags().Changed("delay") {
				cfg.StepDelay = delay
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cfg.Seed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
		}

		d, err := dvsim.BuildExperiment(syn, adjust, provider, dvsim.WithLogger(logger))
		if err != nil {
			return err
		}
		topo := d.Topology()
		logger.Info("countdown seed", "seed", d.Seed())
		if interactive {
			td := topo.Desc()
			fmt.Printf("\n%d costs defined.\n%d links present.\n\n", len(td.Links), td.NumLinks())
		}

		tm := dvsim.CreateTraceManager(topo.Name(), len(tracePath) > 0)
		d.AddObserver(tm.Attach(d))

		if watch {
			d.AddObserver(func(rep dvsim.StepReport) {
				var buf bytes.Buffer
				_ = dvsim.WriteStepHeader(&buf, rep)
				_ = dvsim.WriteTables(&buf, topo, rep.Tables)
				os.Stdout.Write(buf.Bytes())
			})
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var rslt *dvsim.Result
		if virtualStep > 0 {
			// zero leaves the step limit as the only bound
			limit := 0.0
			if maxSteps := d.Config().MaxSteps; maxSteps > 0 {
				limit = virtualStep * float64(maxSteps+1)
			}
			rslt, err = dvsim.RunInVirtualTime(d, virtualStep, limit)
		} else {
			rslt, err = d.Run(ctx)
		}
		tm.Finish(rslt)

		if !watch {
			_ = dvsim.WriteTables(os.Stdout, topo, rslt.Tables)
		}
		_ = dvsim.WriteResult(os.Stdout, rslt)

		if _, werr := tm.WriteToFile(tracePath); werr != nil {
			return werr
		}
		if len(svgPath) > 0 {
			if serr := writeSVGFile(topo, rslt.Tables); serr != nil {
				return serr
			}
		}
		return err
	},
	GroupID: "sim",
}

// writeSVGFile draws the routes towards svgDest into svgPath
func writeSVGFile(topo *dvsim.Topology, tables []dvsim.Table) error {
	dest := dvsim.NodeID(0)
	if len(svgDest) > 0 {
		id, present := topo.Lookup(svgDest)
		if !present {
			return fmt.Errorf("no router named %s", svgDest)
		}
		dest = id
	}
	f, err := os.Create(svgPath)
	if err != nil {
		return err
	}
	dvsim.WriteSVG(f, topo, tables, dest)
	return f.Close()
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for every link cost on the terminal")
	runCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Write every router's table after each step")
	runCmd.Flags().BoolVar(&concurrent, "concurrent", false, "Run each router in its own goroutine")
	runCmd.Flags().DurationVarP(&delay, "delay", "d", 0, "Pause between steps, e.g. 500ms")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed the countdown draws, 0 takes a seed from the clock")
	runCmd.Flags().Float64Var(&virtualStep, "virtual", 0, "Schedule steps this many seconds apart in virtual time")
	runCmd.Flags().StringVar(&tracePath, "trace", "", "Write a step by step trace (.yaml or .json)")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "Draw the converged routes to this SVG file")
	runCmd.Flags().StringVar(&svgDest, "svg-dest", "", "Destination whose routes are drawn, default the first router")
}
