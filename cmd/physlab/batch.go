package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/automation"
	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/labs"
	"github.com/san-kum/physlab/internal/storage"
)

var (
	jitter []string
	trials int
)

func addBatchCommands(root *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of lab runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [lab]",
		Short: "score a lab over randomly perturbed controls",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addLabFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&frames, "frames", 0, "frames per trial (default from config)")
	monteCarloCmd.Flags().StringArrayVar(&jitter, "jitter", nil, "perturb a control by up to ±amount, name=amount (repeatable)")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().StringVar(&objective, "objective", "", "readout or metric to score")
	_ = monteCarloCmd.MarkFlagRequired("objective")

	root.AddCommand(scenarioCmd, monteCarloCmd)
}

func newRunner(cmd *cobra.Command) (*automation.Runner, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, closer, err := newLogger(false)
	if err != nil {
		return nil, nil, err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		closer.Close()
		return nil, nil, err
	}
	r := &automation.Runner{Registry: labs.NewRegistry(), Config: cfg, Store: st, Logger: logger}
	return r, func() { closer.Close() }, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	r, done, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer done()

	if sc.Description != "" {
		fmt.Printf("%s: %s\n\n", sc.Name, sc.Description)
	}
	results, err := r.RunScenario(cmd.Context(), sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLAB\tFRAMES\tREADOUTS\tRUN")
	for _, res := range results {
		parts := make([]string, 0, len(res.Result.Readouts))
		for _, ro := range res.Result.Readouts {
			parts = append(parts, ro.Label+"="+ro.String())
		}
		runID := res.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", res.Step, res.Lab, res.Result.Stats.Frames, strings.Join(parts, ", "), runID)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	r, done, err := newRunner(cmd)
	if err != nil {
		return err
	}
	defer done()

	lab, err := r.Registry.Get(args[0])
	if err != nil {
		return err
	}
	base, err := overrides(r.Config, lab)
	if err != nil {
		return err
	}
	amounts, err := config.ParseSet(jitter)
	if err != nil {
		return err
	}
	jit := make(map[string]float64, len(amounts))
	for name, text := range amounts {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("bad jitter %s=%s, want a non-negative number", name, text)
		}
		jit[name] = v
	}

	results, err := r.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Lab:       lab.Name(),
		Base:      base,
		Jitter:    jit,
		Objective: objective,
		Trials:    trials,
		Frames:    r.Config.Snapshot.Frames,
		Seed:      r.Config.Seed,
	})
	if err != nil {
		return err
	}

	mean, stddev, lo, hi, n, err := automation.MonteCarloStats(results)
	if err != nil {
		return err
	}
	fmt.Printf("%s over %d trials (%d scored)\n", objective, len(results), n)
	fmt.Printf("  mean   %.4g\n", mean)
	fmt.Printf("  stddev %.4g\n", stddev)
	fmt.Printf("  range  [%.4g, %.4g]\n", lo, hi)
	return nil
}
