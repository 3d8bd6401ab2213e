package main

import (
	"context"
	"fmt"
	"github.com/iti/dvsim"
	"github.com/spf13/cobra"
)

var verifySeeds int

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check converged tables against shortest paths",
	Long: `Runs the simulation to convergence, once per seed, and compares every
routing table entry with the shortest path cost computed directly from the
topology. The walk along next hops from each router to each destination is shown.`,
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

		failed := 0
		for run := 1; run <= verifySeeds; run++ {
			d, err := dvsim.BuildExperiment(syn, func(cfg *dvsim.Config) { cfg.Seed = int64(run) }, nil,
				dvsim.WithLogger(logger), dvsim.WithStepClock(dvsim.InstantClock{}))
			if err != nil {
				return err
			}
			rslt, err := d.Run(context.Background())
			if err != nil {
				return err
			}

			topo := d.Topology()
			mismatches := dvsim.VerifyTables(topo, rslt.Tables, d.Config().InfinityHops)
			fmt.Printf("seed %d: converged at step %d, %d drops, %d mismatches\n",
				run, rslt.Steps, rslt.Drops, len(mismatches))
			for _, mm := range mismatches {
				fmt.Printf("\t%s->%s: cost %d, shortest %d\n",
					topo.NodeName(mm.Router), topo.NodeName(mm.Dest), mm.Got, mm.Want)
			}
			if len(mismatches) > 0 {
				failed += 1
			}

			// paths are only shown for the first run
			if run > 1 {
				continue
			}
			for src := 0; src < topo.NumNodes(); src++ {
				for dst := 0; dst < topo.NumNodes(); dst++ {
					if src == dst {
						continue
					}
					hops, perr := dvsim.TracePath(rslt.Tables, dvsim.NodeID(src), dvsim.NodeID(dst))
					ref := dvsim.ReferencePath(topo, dvsim.NodeID(src), dvsim.NodeID(dst))
					if perr != nil {
						fmt.Printf("\t%s->%s: %v (shortest %s)\n", topo.NodeName(dvsim.NodeID(src)),
							topo.NodeName(dvsim.NodeID(dst)), perr, dvsim.ShowPath(topo, ref))
						continue
					}
					fmt.Printf("\t%s->%s: %s (shortest %s)\n", topo.NodeName(dvsim.NodeID(src)),
						topo.NodeName(dvsim.NodeID(dst)), dvsim.ShowPath(topo, hops), dvsim.ShowPath(topo, ref))
				}
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d runs did not reach the shortest path costs", failed, verifySeeds)
		}
		return nil
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().IntVarP(&verifySeeds, "runs", "n", 1, "Number of runs, each with its own seed")
}
