package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/repository"
	"BizPulse/internal/service/viewcache"
	"BizPulse/internal/services/analytics"
	"BizPulse/internal/services/stats"
	"BizPulse/internal/usecase"
	"BizPulse/pkg/config"
	"BizPulse/pkg/format"
	"BizPulse/pkg/metrics"
	"BizPulse/pkg/util"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render one dashboard snapshot to the terminal",
	Long: `Generate the dataset, compute a snapshot for the given inputs and
print the headline cards, the summary statistics and the tail of the trend
series. Useful for eyeballing dataset or formula changes without a browser.

Examples:
  bizpulse snapshot
  bizpulse snapshot --from 2023-02-01 --to 2023-03-01 --metric users
  bizpulse snapshot --window 14 --rows 20
  bizpulse snapshot --json`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().String("from", "", "start date, YYYY-MM-DD (default: dataset start)")
	snapshotCmd.Flags().String("to", "", "end date, YYYY-MM-DD (default: dataset end)")
	snapshotCmd.Flags().String("metric", "sales", "trend metric: sales, users or conversion")
	snapshotCmd.Flags().Int("window", models.DefaultWindow, "moving-average window in days")
	snapshotCmd.Flags().Int("rows", 10, "trend rows to print (0 = all)")
	snapshotCmd.Flags().Bool("json", false, "output as JSON")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	params, err := snapshotParams(cmd)
	if err != nil {
		return err
	}

	dash, views, err := buildDashboard(cfg)
	if err != nil {
		return err
	}
	defer views.Close()

	snap, err := dash.Snapshot(context.Background(), params)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(models.NewSnapshotPayload(snap))
	}

	tail, _ := cmd.Flags().GetInt("rows")
	renderSnapshot(cmd.OutOrStdout(), dash.Meta(), snap, tail)
	return nil
}

func snapshotParams(cmd *cobra.Command) (usecase.SnapshotParams, error) {
	var p usecase.SnapshotParams

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		t, ok := util.ParseDate(from)
		if !ok {
			return p, fmt.Errorf("--from %q: want YYYY-MM-DD", from)
		}
		p.Range.Start = t
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		t, ok := util.ParseDate(to)
		if !ok {
			return p, fmt.Errorf("--to %q: want YYYY-MM-DD", to)
		}
		p.Range.End = t
	}

	metric, _ := cmd.Flags().GetString("metric")
	p.Metric = models.Metric(metric)
	if metric != "" && !models.IsValidMetric(p.Metric) {
		return p, fmt.Errorf("--metric %q: want one of sales, users, conversion", metric)
	}

	p.Window, _ = cmd.Flags().GetInt("window")
	return p, nil
}

// buildDashboard assembles the read-only analytics stack the way the DI
// layer does, without the HTTP server around it.
func buildDashboard(cfg *config.Config) (*usecase.DashboardUsecase, *viewcache.Provider, error) {
	start, ok := util.ParseDate(cfg.Dataset.StartDate)
	if !ok {
		return nil, nil, fmt.Errorf("dataset.start_date %q: want YYYY-MM-DD", cfg.Dataset.StartDate)
	}

	rec := metrics.New()
	ds := repository.NewMemoryDataset(repository.DatasetConfig{
		Seed:          cfg.Dataset.Seed,
		Days:          cfg.Dataset.Days,
		StartDate:     start,
		SalesMean:     cfg.Dataset.SalesMean,
		SalesStd:      cfg.Dataset.SalesStd,
		UsersLambda:   cfg.Dataset.UsersLambda,
		ConversionMin: cfg.Dataset.ConversionMin,
		ConversionMax: cfg.Dataset.ConversionMax,
	})
	views := viewcache.New(ds, analytics.NewRangeFilter(), rec, viewcache.Config{
		TTL:        cfg.Cache.ViewTTL,
		MaxEntries: cfg.Cache.MaxEntries,
	})
	dash := usecase.NewDashboardUsecase(ds, views,
		analytics.NewMetricDeriver(), analytics.NewTableSummarizer(), rec)
	return dash, views, nil
}

func renderSnapshot(w io.Writer, meta models.DatasetMeta, snap *models.DashboardSnapshot, tail int) {
	fmt.Fprintf(w, "Dataset  %d rows, %s (seed %d)\n", meta.Rows, rangeText(meta.Span), meta.Seed)
	fmt.Fprintf(w, "Inputs   %s, metric %s, window %d (%d rows selected)\n\n",
		rangeText(snap.Inputs.Range), snap.Inputs.Metric, snap.Inputs.Window, snap.RowCount)

	heading(w, "Headline")
	kpi := newTable(w, []string{"KPI", "VALUE"})
	kpi.addRow("Total Sales", snap.Cards.TotalSales)
	kpi.addRow("Average Users", snap.Cards.AvgUsers)
	kpi.addRow("Conversion Rate", snap.Cards.ConversionRate)
	kpi.render()
	fmt.Fprintln(w)

	heading(w, "Summary")
	sum := newTable(w, []string{"COLUMN", "COUNT", "MEAN", "STD", "MIN", "P25", "P50", "P75", "MAX"})
	for _, m := range models.AllMetrics() {
		col := snap.Summary.Column(m)
		sum.addRow(string(m), strconv.Itoa(col.Count),
			cell(col.Mean), cell(col.Std), cell(col.Min),
			cell(col.P25), cell(col.P50), cell(col.P75), cell(col.Max))
	}
	sum.render()
	fmt.Fprintln(w)

	n := len(snap.Trend.Dates)
	shown := n
	if tail > 0 && tail < n {
		shown = tail
	}
	heading(w, fmt.Sprintf("Trend (%s, %d-day avg, last %d of %d)",
		snap.Trend.Metric, snap.Trend.Window, shown, n))
	if n == 0 {
		fmt.Fprintln(w, format.NoData)
		return
	}
	tr := newTable(w, []string{"DATE", "DAILY", "AVG"})
	for i := n - shown; i < n; i++ {
		tr.addRow(snap.Trend.Dates[i].Format(models.DateLayout),
			trendCell(snap.Trend.Metric, snap.Trend.Daily[i]),
			trendCell(snap.Trend.Metric, snap.Trend.MovingAvg[i]))
	}
	tr.render()
}

func rangeText(r models.DateRange) string {
	return r.Start.Format(models.DateLayout) + " .. " + r.End.Format(models.DateLayout)
}

// cell renders a summary value; NaN cells show as "-".
func cell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return format.Float(v)
}

// trendCell renders a trend value in the metric's display form.
func trendCell(m models.Metric, v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	if m == models.MetricConversion {
		return format.Percent(v)
	}
	return format.Float(stats.Round2(v))
}
