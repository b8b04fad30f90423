package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/occsched/core/resources"
)

var resourcesFlags struct {
	clusters int
	regions  []string
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Probability resource commands",
}

var resourcesInitCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Write a synthetic resource tree for demos and smoke runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := resources.SyntheticOptions{Clusters: resourcesFlags.clusters, Regions: resourcesFlags.regions}
		if err := resources.WriteSynthetic(args[0], opts); err != nil {
			return err
		}
		// validate what was written
		if _, err := resources.NewStore(args[0]).LoadTables(max(resourcesFlags.clusters, 1)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "resources written to %s\n", args[0])
		return err
	},
}

func init() {
	resourcesInitCmd.Flags().IntVar(&resourcesFlags.clusters, "clusters", 4, "number of occupancy-type clusters")
	resourcesInitCmd.Flags().StringSliceVar(&resourcesFlags.regions, "regions", nil, "state codes of the monthly shift tables")
	resourcesCmd.AddCommand(resourcesInitCmd)
	rootCmd.AddCommand(resourcesCmd)
}
