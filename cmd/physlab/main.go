package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/control"
	"github.com/san-kum/physlab/internal/engine"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/export"
	"github.com/san-kum/physlab/internal/labs"
	"github.com/san-kum/physlab/internal/optim"
	"github.com/san-kum/physlab/internal/raster"
	"github.com/san-kum/physlab/internal/storage"
	"github.com/san-kum/physlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFile    string
	seed       int64
	fps        int
	// Lab settings
	preset string
	sets   []string
	// Headless output
	frames   int
	outPath  string
	every    int
	gifWidth int
	readouts []string
	save     bool
	theme    string
	realtime bool
	// Sweeps
	sweepControl string
	sweepValues  []string
	params       []string
	objective    string
	maximize     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "physlab",
		Short:         "interactive physics experiments in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, nil)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (default from config)")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", 0, "frames per second (default from config)")

	labsCmd := &cobra.Command{
		Use:   "labs",
		Short: "list labs",
		Args:  cobra.NoArgs,
		RunE:  listLabs,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [lab]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	runCmd := &cobra.Command{
		Use:   "run [lab]",
		Short: "run a lab in the terminal; with no lab, pick one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addLabFlags(runCmd)
	runCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [lab]",
		Short: "render a lab headlessly and save the last frame as png",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	addLabFlags(snapshotCmd)
	addHeadlessFlags(snapshotCmd)

	svgCmd := &cobra.Command{
		Use:   "svg [lab]",
		Short: "render a lab headlessly and write the last frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  writeSVG,
	}
	addLabFlags(svgCmd)
	addHeadlessFlags(svgCmd)

	recordCmd := &cobra.Command{
		Use:   "record [lab]",
		Short: "record a lab headlessly as an animated gif",
		Args:  cobra.ExactArgs(1),
		RunE:  record,
	}
	addLabFlags(recordCmd)
	addHeadlessFlags(recordCmd)
	recordCmd.Flags().IntVar(&every, "every", 2, "keep one frame in every n")
	recordCmd.Flags().IntVar(&gifWidth, "width", 480, "gif width in pixels")

	traceCmd := &cobra.Command{
		Use:   "trace [lab]",
		Short: "run a lab headlessly and plot its readouts",
		Args:  cobra.ExactArgs(1),
		RunE:  trace,
	}
	addLabFlags(traceCmd)
	addHeadlessFlags(traceCmd)
	traceCmd.Flags().StringSliceVar(&readouts, "readout", nil, "readouts to plot (default all)")
	traceCmd.Flags().BoolVar(&save, "save", false, "archive the run in the data directory")
	traceCmd.Flags().BoolVar(&realtime, "realtime", false, "pace frames to the wall clock at --fps")

	sweepCmd := &cobra.Command{
		Use:   "sweep [lab]",
		Short: "run a lab once per value of a control and compare the readouts",
		Args:  cobra.ExactArgs(1),
		RunE:  sweep,
	}
	addLabFlags(sweepCmd)
	addHeadlessFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepControl, "control", "", "control to vary")
	sweepCmd.Flags().StringSliceVar(&sweepValues, "values", nil, "values to try")
	_ = sweepCmd.MarkFlagRequired("control")
	_ = sweepCmd.MarkFlagRequired("values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [lab]",
		Short: "grid search controls for the best readout or metric",
		Args:  cobra.ExactArgs(1),
		RunE:  optimize,
	}
	addLabFlags(optimizeCmd)
	addHeadlessFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&params, "param", nil, "control to search, name=start:stop:step or name=a,b,c (repeatable)")
	optimizeCmd.Flags().StringVar(&objective, "objective", "", "readout or metric to score")
	optimizeCmd.Flags().BoolVar(&maximize, "maximize", false, "keep the highest score instead of the lowest")
	_ = optimizeCmd.MarkFlagRequired("param")
	_ = optimizeCmd.MarkFlagRequired("objective")

	rootCmd.AddCommand(labsCmd, presetsCmd, runCmd, snapshotCmd, svgCmd, recordCmd, traceCmd, sweepCmd, optimizeCmd)
	addArchiveCommands(rootCmd)
	addBatchCommands(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addLabFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a control, name=value (repeatable)")
}

func addHeadlessFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frames, "frames", 0, "frames to render (default from config)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") && fps > 0 {
		cfg.FPS = fps
	}
	if flags.Changed("frames") && frames > 0 {
		cfg.Snapshot.Frames = frames
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	return cfg, nil
}

// newLogger builds the logger for a command. The terminal UI owns the
// screen, so it logs to a file even when none was asked for.
func newLogger(tui bool) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, nil, fmt.Errorf("bad --log-level: %w", err)
	}

	path := logFile
	if path == "" && tui {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dataDir, "physlab.log")
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nopWriteCloser{os.Stderr}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// overrides layers config, preset and --set values for lab, in that order.
func overrides(cfg *config.Config, lab engine.Lab, extra ...map[string]string) (map[string]float64, error) {
	layers := []map[string]string{cfg.Overrides(lab.Name())}
	if preset != "" {
		p := config.GetPreset(lab.Name(), preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(lab.Name()))
		}
		layers = append(layers, p)
	}
	set, err := config.ParseSet(sets)
	if err != nil {
		return nil, err
	}
	layers = append(layers, set)
	layers = append(layers, extra...)
	return config.Resolve(lab.Controls(), layers...)
}

func listLabs(cmd *cobra.Command, args []string) error {
	registry := labs.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tCONTROLS\tPRESETS")
	for _, lab := range registry.Labs() {
		names := make([]string, 0, len(lab.Controls()))
		for _, s := range lab.Controls() {
			names = append(names, s.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			lab.Name(),
			lab.Title(),
			strings.Join(names, ","),
			len(config.ListPresets(lab.Name())),
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	registry := labs.NewRegistry()
	names := registry.Sorted()
	if len(args) == 1 {
		if _, err := registry.Get(args[0]); err != nil {
			return err
		}
		names = args
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAB\tPRESET\tSETTINGS")
	for _, lab := range names {
		for _, p := range config.ListPresets(lab) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", lab, p, formatSettings(config.GetPreset(lab, p)))
		}
	}
	return w.Flush()
}

func formatSettings(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + m[k]
	}
	return strings.Join(parts, " ")
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := viz.Options{
		FPS:       cfg.FPS,
		MaxStep:   cfg.MaxStep(),
		KeyHold:   cfg.KeyHold(),
		Theme:     cfg.Theme,
		Seed:      cfg.Seed,
		Logger:    logger,
		RecordDir: dataDir,
	}

	registry := labs.NewRegistry()
	if len(args) == 0 {
		return viz.RunInteractive(registry, opts)
	}

	lab, err := registry.Get(args[0])
	if err != nil {
		return err
	}
	if opts.Overrides, err = overrides(cfg, lab); err != nil {
		return err
	}
	return viz.Run(lab, opts)
}

// headless runs lab through an experiment with the command's settings.
func headless(cmd *cobra.Command, name string, observers ...engine.Observer) (experiment.Config, *experiment.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return experiment.Config{}, nil, err
	}
	logger, closer, err := newLogger(false)
	if err != nil {
		return experiment.Config{}, nil, err
	}
	defer closer.Close()

	registry := labs.NewRegistry()
	lab, err := registry.Get(name)
	if err != nil {
		return experiment.Config{}, nil, err
	}
	vals, err := overrides(cfg, lab)
	if err != nil {
		return experiment.Config{}, nil, err
	}

	ecfg := experimentConfig(cfg, name, vals)
	exp := experiment.New(ecfg, registry, logger)
	for _, o := range observers {
		exp.AddObserver(o)
	}

	start := time.Now()
	res, err := exp.Run(cmd.Context())
	if err != nil {
		return ecfg, res, err
	}
	logger.Info("run complete", "lab", name, "frames", res.Stats.Frames, "took", time.Since(start))
	return ecfg, res, nil
}

func experimentConfig(cfg *config.Config, name string, vals map[string]float64) experiment.Config {
	return experiment.Config{
		Lab:       name,
		Width:     cfg.Snapshot.Width,
		Height:    cfg.Snapshot.Height,
		Frames:    cfg.Snapshot.Frames,
		FPS:       cfg.FPS,
		Seed:      cfg.Seed,
		Overrides: vals,
		Metrics:   true,
		Realtime:  realtime,
	}
}

// create opens path for writing, or stdout for "-".
func create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func snapshot(cmd *cobra.Command, args []string) error {
	_, res, err := headless(cmd, args[0])
	if err != nil {
		return err
	}
	size := res.Frame.Size()
	img, err := raster.Render(res.Frame, int(size.W), int(size.H))
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = args[0] + ".png"
	}
	f, err := create(path)
	if err != nil {
		return err
	}
	if err := raster.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%dx%d, frame %d)\n", path, int(size.W), int(size.H), res.Stats.Frames)
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	_, res, err := headless(cmd, args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = "-"
	}
	f, err := create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, export.SVG(res.Frame)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func record(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if gifWidth <= 0 {
		return fmt.Errorf("gif width must be positive, got %d", gifWidth)
	}
	h := int(float64(gifWidth) * cfg.Snapshot.Height / cfg.Snapshot.Width)
	rec := export.NewRecorder(gifWidth, h, every)

	_, res, err := headless(cmd, args[0], rec)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = args[0] + ".gif"
	}
	f, err := create(path)
	if err != nil {
		return err
	}
	kept := rec.Len()
	if err := rec.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d of %d frames)\n", path, kept, res.Stats.Frames)
	return nil
}

func trace(cmd *cobra.Command, args []string) error {
	ecfg, res, err := headless(cmd, args[0])
	if err != nil {
		return err
	}

	units := make(map[string]string)
	for _, r := range res.Readouts {
		units[r.Label] = r.Unit
	}
	labels := res.Trace.Labels()
	if len(readouts) > 0 {
		labels = readouts
	}

	fmt.Printf("lab: %s\n", res.Lab.Title())
	fmt.Printf("frames: %d (%.2fs)\n\n", res.Stats.Frames, res.Stats.Elapsed.Seconds())
	for _, label := range labels {
		values, ok := res.Trace.Values(label)
		if !ok {
			return fmt.Errorf("no numeric readout %q (have %v)", label, res.Trace.Labels())
		}
		caption := label
		if u := units[label]; u != "" {
			caption += " (" + u + ")"
		}
		fmt.Println(plot(values, caption))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "READOUT\tMIN\tMAX\tLAST")
	for _, s := range res.Trace.Summaries() {
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\n", s.Label, s.Min, s.Max, s.Last)
	}
	for _, name := range sortedKeys(res.Metrics) {
		fmt.Fprintf(w, "metric %s\t\t\t%.4g\n", name, res.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(ecfg, res)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved run: %s\n", runID)
	return nil
}

func plot(values []float64, caption string) string {
	if len(values) == 0 {
		return caption + ": no data"
	}
	return asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	registry := labs.NewRegistry()
	lab, err := registry.Get(args[0])
	if err != nil {
		return err
	}

	cfgs := make([]experiment.Config, len(sweepValues))
	for i, v := range sweepValues {
		vals, err := overrides(cfg, lab, map[string]string{sweepControl: v})
		if err != nil {
			return err
		}
		cfgs[i] = experimentConfig(cfg, lab.Name(), vals)
	}

	results, errs := experiment.NewEnsemble(registry, logger).Run(cmd.Context(), cfgs)
	if err := errors.Join(errs...); err != nil {
		return err
	}

	var labels []string
	for _, r := range results[0].Readouts {
		labels = append(labels, r.Label)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepControl), strings.ToUpper(strings.Join(labels, "\t")))
	for i, res := range results {
		row := []string{sweepValues[i]}
		for _, r := range res.Readouts {
			row = append(row, r.String())
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}


func optimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	registry := labs.NewRegistry()
	lab, err := registry.Get(args[0])
	if err != nil {
		return err
	}
	base, err := overrides(cfg, lab)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, p := range params {
		name, values, err := optim.ParseAxis(lab.Controls(), p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g := optim.NewGridSearch(names, ranges)
	g.Maximize = maximize
	best, trials, err := g.Search(cmd.Context(), func(ctx context.Context, p map[string]float64) (float64, error) {
		vals := make(map[string]float64, len(base)+len(p))
		for k, v := range base {
			vals[k] = v
		}
		for k, v := range p {
			vals[k] = v
		}
		res, err := experiment.New(experimentConfig(cfg, lab.Name(), vals), registry, logger).Run(ctx)
		if err != nil {
			return math.NaN(), err
		}
		return optim.Score(res, objective)
	})
	if err != nil && !errors.Is(err, optim.ErrNoTrials) {
		return err
	}

	specs := make(map[string]control.Spec)
	for _, s := range lab.Controls() {
		specs[s.Name] = s
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(objective))
	for _, t := range trials {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, specs[n].Format(t.Params[n]))
		}
		if t.Err != nil {
			row = append(row, "error: "+t.Err.Error())
		} else {
			row = append(row, fmt.Sprintf("%.4g", t.Score))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + specs[n].Format(best.Params[n])
	}
	fmt.Printf("\nbest: %s (%s %.4g)\n", strings.Join(parts, " "), objective, best.Score)
	return nil
}
