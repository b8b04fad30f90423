package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/occsched/core/runlog"
)

var runsFlags struct {
	building string
	status   string
	limit    int
	output   string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Run ledger commands",
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded generation runs",
	RunE:  runRunsLs,
}

func init() {
	f := runsLsCmd.Flags()
	f.StringVar(&runsFlags.building, "building", "", "filter by building id")
	f.StringVar(&runsFlags.status, "status", "", "filter by status (ok, failed, canceled)")
	f.IntVar(&runsFlags.limit, "limit", 0, "show only the most recent runs")
	f.StringVarP(&runsFlags.output, "output", "o", "table", "output format: table, yaml or json")
	runsCmd.AddCommand(runsLsCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsLs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	recs, err := store.Query(cmd.Context(), runlog.Query{
		Building: runsFlags.building,
		Status:   runsFlags.status,
		Limit:    runsFlags.limit,
	})
	if err != nil {
		return err
	}
	return printRuns(cmd, recs, runsFlags.output)
}

func printRuns(cmd *cobra.Command, recs []runlog.Record, format string) error {
	w := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "TIME\tRUN\tBUILDING\tSEED\tSTATUS\tDURATION\tOUTPUT")
		for _, r := range recs {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%dms\t%s\n",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.RunID, r.Building, r.Seed, r.Status, r.DurationMS, r.Output)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q", format)
}
