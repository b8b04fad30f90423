package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartOptions select the columns and day range drawn by RenderChart.
type ChartOptions struct {
	Title   string
	Columns []string
	// Day is the zero-based first day drawn.
	Day  int
	Days int
	// StepsPerDay is inferred from the row count of a full year when zero.
	StepsPerDay int
}

// stepsPerDay infers the resolution of a full-year table.
func stepsPerDay(rows int) (int, error) {
	for _, days := range []int{365, 366} {
		if rows > 0 && rows%days == 0 {
			return rows / days, nil
		}
	}
	return 0, fmt.Errorf("cannot infer steps per day from %d rows", rows)
}

// RenderChart writes an HTML line chart of the selected columns.
func RenderChart(w io.Writer, t *Table, o ChartOptions) error {
	spd := o.StepsPerDay
	if spd == 0 {
		var err error
		if spd, err = stepsPerDay(t.Rows()); err != nil {
			return err
		}
	}
	if o.Days <= 0 {
		o.Days = 1
	}
	first := o.Day * spd
	last := first + o.Days*spd
	if o.Day < 0 || first >= t.Rows() {
		return fmt.Errorf("day %d outside the schedule", o.Day)
	}
	if last > t.Rows() {
		last = t.Rows()
	}
	names := o.Columns
	if len(names) == 0 {
		names = t.Header
	}
	title := o.Title
	if title == "" {
		title = "Schedule"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("days %d-%d", o.Day, o.Day+o.Days-1)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time of day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Value"}),
	)
	minutes := 24 * 60 / spd
	labels := make([]string, 0, last-first)
	for s := first; s < last; s++ {
		m := (s % spd) * minutes
		labels = append(labels, fmt.Sprintf("d%d %02d:%02d", s/spd, m/60, m%60))
	}
	line.SetXAxis(labels)
	for _, n := range names {
		col, ok := t.Column(n)
		if !ok {
			return fmt.Errorf("unknown column %q", n)
		}
		data := make([]opts.LineData, 0, last-first)
		for _, v := range col[first:last] {
			data = append(data, opts.LineData{Value: v})
		}
		line.AddSeries(n, data)
	}
	return line.Render(w)
}
