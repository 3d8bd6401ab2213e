package main

import (
	"fmt"
	"github.com/iti/dvsim"
	"github.com/spf13/cobra"
)

var (
	topoOut   string
	configOut string
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default topology and parameters",
	Long: `Writes the six router reference topology and the default simulation
parameters, as a starting point for descriptions of other experiments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(topoOut) == 0 && len(configOut) == 0 {
			return fmt.Errorf("nothing to write, give --topo-out or --config-out")
		}
		if _, err := dvsim.CheckOutputFiles([]string{topoOut, configOut}); err != nil {
			return err
		}
		if len(topoOut) > 0 {
			if err := dvsim.DefaultTopoDesc().WriteToFile(topoOut); err != nil {
				return err
			}
			fmt.Println("topology written to", topoOut)
		}
		if len(configOut) > 0 {
			if err := dvsim.DefaultConfig().WriteToFile(configOut); err != nil {
				return err
			}
			fmt.Println("parameters written to", configOut)
		}
		return nil
	},
	GroupID: "desc",
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&topoOut, "topo-out", "", "Write the default topology here (.yaml or .json)")
	initCmd.Flags().StringVar(&configOut, "config-out", "", "Write the default parameters here (.yaml or .json)")
}
