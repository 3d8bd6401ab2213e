package main

import (
	"github.com/iti/dvsim"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
)

// input files shared by every command
var (
	topoPath   string
	configPath string
	logPath    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dvsim",
	Short: "Distance-vector routing simulator",
	Long: `dvsim simulates routers that build their routing tables by exchanging
distance vectors with their neighbors, step by step, until no table changes.
Without a topology file the six router reference topology is used.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "sim",
		Title: "Simulation Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "desc",
		Title: "Description Files",
	})
	rootCmd.PersistentFlags().StringVarP(&topoPath, "topo", "t", "", "topology description (.yaml or .json)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "simulation parameters (.yaml or .json)")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "also write log records to this file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
}

// commandLogger builds the logger selected by the persistent flags
func commandLogger(cmd *cobra.Command) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if ok, _ := cmd.Flags().GetBool("verbose"); ok {
		level = slog.LevelDebug
	}
	return dvsim.NewLogger(level, logPath, "dvsim")
}

// inputFiles maps the persistent flags onto the keys BuildExperiment expects
func inputFiles() (map[string]string, error) {
	syn := map[string]string{dvsim.TopoKey: topoPath, dvsim.ConfigKey: configPath}
	names := []string{}
	for _, name := range syn {
		if len(name) > 0 {
			names = append(names, name)
		}
	}
	if _, err := dvsim.CheckReadableFiles(names); err != nil {
		return nil, err
	}
	return syn, nil
}
