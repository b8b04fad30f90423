package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/occsched/pkg/export"
)

var plotFlags struct {
	columns []string
	day     int
	days    int
	out     string
	title   string
}

var plotCmd = &cobra.Command{
	Use:   "plot <csv>",
	Short: "Render an HTML chart of an exported schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlot,
}

func init() {
	f := plotCmd.Flags()
	f.StringSliceVar(&plotFlags.columns, "columns", nil, "columns to draw (default all)")
	f.IntVar(&plotFlags.day, "day", 0, "first day, zero-based")
	f.IntVar(&plotFlags.days, "days", 7, "number of days")
	f.StringVar(&plotFlags.out, "out", "chart.html", "output HTML file")
	f.StringVar(&plotFlags.title, "title", "", "chart title (default the csv name)")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	tbl, err := export.ReadCSV(in)
	_ = in.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	title := plotFlags.title
	if title == "" {
		title = args[0]
	}
	out, err := os.Create(plotFlags.out)
	if err != nil {
		return err
	}
	err = export.RenderChart(out, tbl, export.ChartOptions{
		Title:   title,
		Columns: plotFlags.columns,
		Day:     plotFlags.day,
		Days:    plotFlags.days,
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", plotFlags.out)
	return err
}
