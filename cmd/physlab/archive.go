package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/analysis"
	"github.com/san-kum/physlab/internal/storage"
)

var (
	xReadout string
	yReadout string
)

// addArchiveCommands registers the commands that read runs saved by
// trace --save.
func addArchiveCommands(root *cobra.Command) {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the readouts of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&readouts, "readout", nil, "readouts to plot (default all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export an archived run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&readouts, "readout", nil, "readouts to analyze (default all)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "plot one readout of an archived run against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phaseRun,
	}
	phaseCmd.Flags().StringVar(&xReadout, "x", "", "readout on the x axis (default first)")
	phaseCmd.Flags().StringVar(&yReadout, "y", "", "readout on the y axis (default second)")

	root.AddCommand(runsCmd, plotCmd, exportCmd, analyzeCmd, phaseCmd)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLAB\tTIME\tFRAMES\tELAPSED\tSEED\tOVERRIDES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%d\t%s\n",
			run.ID,
			run.Lab,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Elapsed,
			run.Seed,
			formatOverrides(run.Overrides),
		)
	}
	return w.Flush()
}

func formatOverrides(m map[string]float64) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s=%g", k, m[k]))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// loadRun reads a run and its trace, narrowed to the --readout list.
func loadRun(runID string) (*storage.RunMetadata, *storage.Table, []string, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	table, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(table.Times) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no data", runID)
	}

	labels := table.Labels
	if len(readouts) > 0 {
		for _, r := range readouts {
			if _, ok := table.Values[r]; !ok {
				return nil, nil, nil, fmt.Errorf("run %s has no readout %q (have %v)", runID, r, table.Labels)
			}
		}
		labels = readouts
	}
	return meta, table, labels, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, table, labels, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lab: %s\n", meta.Title)
	fmt.Printf("samples: %d\n\n", len(table.Times))

	for _, label := range labels {
		fmt.Println(plot(table.Values[label], label))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	path := outPath
	if path == "" {
		path = "-"
	}
	f, err := create(path)
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportJSON(f, args[0]); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, table, labels, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if meta.FPS <= 0 {
		return fmt.Errorf("run %s has no frame rate", meta.ID)
	}
	dt := 1 / float64(meta.FPS)

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("lab: %s\n\n", meta.Title)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "READOUT\tDOMINANT\tPERIOD\tCROSSING PERIOD")
	for _, label := range labels {
		values := table.Values[label]
		dominant, period := "-", "-"
		if f, ok := analysis.Dominant(values, dt); ok {
			dominant = fmt.Sprintf("%.3f hz", f)
			period = fmt.Sprintf("%.3f s", 1/f)
		}
		crossing := "-"
		if p, ok := analysis.Period(values, dt); ok {
			crossing = fmt.Sprintf("%.3f s", p)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", label, dominant, period, crossing)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(labels) == 0 {
		return nil
	}
	bins := analysis.Spectrum(table.Values[labels[0]], dt)
	if len(bins) < 2 {
		return nil
	}
	amps := make([]float64, len(bins)/4+1)
	for i := range amps {
		amps[i] = bins[i].Amplitude
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(amps,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("amplitude spectrum (%s), 0 to %.2f hz", labels[0], bins[len(amps)-1].Freq)),
	))
	return nil
}

func phaseRun(cmd *cobra.Command, args []string) error {
	meta, table, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	x, y := xReadout, yReadout
	if x == "" && len(table.Labels) > 0 {
		x = table.Labels[0]
	}
	if y == "" && len(table.Labels) > 1 {
		y = table.Labels[1]
	}
	xs, okx := table.Values[x]
	ys, oky := table.Values[y]
	if !okx || !oky {
		return fmt.Errorf("run %s needs two readouts, have %v", meta.ID, table.Labels)
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("x: %s, y: %s\n\n", x, y)
	fmt.Print(analysis.NewPortrait(x, xs, y, ys).ASCII(70, 24))
	return nil
}
