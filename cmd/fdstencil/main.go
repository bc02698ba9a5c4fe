package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/san-kum/fdstencil/fornberg"
	"github.com/san-kum/fdstencil/internal/batch"
	"github.com/san-kum/fdstencil/internal/config"
	"github.com/san-kum/fdstencil/internal/logging"
	"github.com/san-kum/fdstencil/internal/storage"
	"github.com/san-kum/fdstencil/internal/tui"
	"github.com/san-kum/fdstencil/internal/viz"
)

var (
	dataDir   string
	verbosity int
	logDev    bool
	log       = logr.Discard()

	order     int
	at        float64
	points    []float64
	allOrders bool
	format    string
	plot      bool

	save    bool
	workers int

	plotOrder int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fdstencil",
		Short:        "finite-difference stencil weights (Fornberg)",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.New(logging.Options{
				Development: logDev,
				Verbosity:   verbosity,
				DestWriter:  cmd.ErrOrStderr(),
			}).WithName("fdstencil")
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fdstencil", "data directory")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "log verbosity")
	rootCmd.PersistentFlags().BoolVar(&logDev, "log-dev", false, "human-readable logs")

	weightsCmd := &cobra.Command{
		Use:   "weights",
		Short: "compute weights for one stencil",
		Args:  cobra.NoArgs,
		RunE:  runWeights,
	}
	weightsCmd.Flags().IntVarP(&order, "order", "k", 1, "derivative order")
	weightsCmd.Flags().Float64Var(&at, "at", 0, "evaluation point")
	weightsCmd.Flags().Float64SliceVarP(&points, "points", "x", nil, "sample points, comma separated")
	addOutputFlags(weightsCmd)
	_ = weightsCmd.MarkFlagRequired("points")

	presetCmd := &cobra.Command{
		Use:   "preset [family/name]",
		Short: "compute a built-in stencil",
		Args:  cobra.ExactArgs(1),
		RunE:  runPreset,
	}
	presetCmd.Flags().Float64Var(&at, "at", 0, "evaluation point")
	addOutputFlags(presetCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list built-in stencils",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [job.yaml]",
		Short: "compute every stencil of a job file in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&save, "save", false, "store results in the data directory")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "override the job's worker count")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [stencil]",
		Short: "plot stored weights",
		Args:  cobra.ExactArgs(2),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVarP(&plotOrder, "order", "k", -1, "derivative order (default: the stencil's own)")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactively explore weights over fixed points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(points, order, at)
		},
	}
	exploreCmd.Flags().IntVarP(&order, "order", "k", 1, "initial derivative order")
	exploreCmd.Flags().Float64Var(&at, "at", 0, "initial evaluation point")
	exploreCmd.Flags().Float64SliceVarP(&points, "points", "x", nil, "sample points, comma separated")
	_ = exploreCmd.MarkFlagRequired("points")

	rootCmd.AddCommand(weightsCmd, presetCmd, presetsCmd, batchCmd, listCmd, showCmd, plotCmd, exploreCmd)
	return rootCmd
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&allOrders, "all", false, "show every order up to --order")
	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text, json, csv")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the weights (text format only)")
}

func runWeights(cmd *cobra.Command, args []string) error {
	return emit(cmd.OutOrStdout(), order, at, points)
}

func runPreset(cmd *cobra.Command, args []string) error {
	spec, ok := config.GetPreset(args[0])
	if !ok {
		return fmt.Errorf("unknown preset: %s (see 'fdstencil presets')", args[0])
	}
	return emit(cmd.OutOrStdout(), spec.Order, at, spec.Points)
}

// output is the JSON shape of a single stencil.
type output struct {
	Order   int         `json:"order"`
	At      float64     `json:"at"`
	Points  []float64   `json:"points"`
	Weights []float64   `json:"weights"`
	Orders  [][]float64 `json:"orders,omitempty"`
}

func emit(w io.Writer, k int, x0 float64, x []float64) error {
	tab, err := fornberg.Compute(k, x0, x)
	if err != nil {
		return err
	}
	weights := tab.Column(k)
	log.V(1).Info("computed stencil", "order", k, "at", x0, "points", len(x))

	switch format {
	case "json":
		out := output{Order: k, At: x0, Points: x, Weights: weights}
		if allOrders {
			for m := 0; m <= k; m++ {
				out.Orders = append(out.Orders, tab.Column(m))
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"index", "point", "order", "weight"}); err != nil {
			return err
		}
		lo := k
		if allOrders {
			lo = 0
		}
		for m := lo; m <= k; m++ {
			for i, wt := range tab.Column(m) {
				rec := []string{strconv.Itoa(i), formatFloat(x[i]), strconv.Itoa(m), formatFloat(wt)}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		cw.Flush()
		return cw.Error()

	case "text", "":
		if allOrders {
			fmt.Fprintln(w, viz.RenderTable(tab, x, x0))
		} else {
			fmt.Fprintln(w, viz.RenderStencil(&fornberg.Stencil{Order: k, At: x0, Points: x, Weights: weights}))
		}
		if plot {
			fmt.Fprintln(w)
			fmt.Fprintln(w, viz.PlotWeights(weights, viz.Heading(k, x0, len(x))))
		}
		return nil

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tORDER\tPOINTS")

	family := ""
	if len(args) == 1 {
		family = args[0]
	}
	refs := config.ListPresets(family)
	if len(refs) == 0 {
		return fmt.Errorf("no presets for family: %s (families: %s)", family, strings.Join(config.Families(), ", "))
	}
	for _, ref := range refs {
		spec, _ := config.GetPreset(ref)
		fmt.Fprintf(w, "%s\t%d\t%s\n", ref, spec.Order, joinFloats(spec.Points))
	}
	return w.Flush()
}

func joinFloats(v []float64) string {
	s := make([]string, len(v))
	for i, f := range v {
		s[i] = formatFloat(f)
	}
	return strings.Join(s, ",")
}

func runBatch(cmd *cobra.Command, args []string) error {
	job, err := config.Load(args[0])
	if err != nil {
		return err
	}
	if workers > 0 {
		job.Workers = workers
	}
	// Stencils the solver rejects are reported per result.
	if err := job.ValidateShape(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := batch.New(batch.Options{Workers: job.Workers, Logger: log})
	results, runErr := r.Run(ctx, job.Stencils)
	sum := batch.Summarize(results)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Title.Render(job.Name))
	fmt.Fprintln(out, viz.RenderBatch(results))
	fmt.Fprintln(out, viz.RenderSummary(sum))

	if save {
		st := storage.New(dataDir)
		runID, err := st.Save(job.Name, job.Workers, results)
		if err != nil {
			return err
		}
		log.V(1).Info("saved run", "id", runID, "dir", dataDir)
		fmt.Fprintf(out, "saved: %s\n", runID)
	}
	if runErr != nil {
		return runErr
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d stencils failed", sum.Failed, sum.Total)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tJOB\tTIME\tSTENCILS\tFAILED\tWORKERS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Job,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Stencils),
			run.Failed,
			run.Workers,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID, name := args[0], args[1]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadWeights(runID)
	if err != nil {
		return err
	}

	var rec *storage.StencilRecord
	for i := range meta.Stencils {
		if meta.Stencils[i].Name == name {
			rec = &meta.Stencils[i]
			break
		}
	}
	if rec == nil {
		return fmt.Errorf("run %s has no stencil %q", runID, name)
	}
	if rec.Error != "" {
		return fmt.Errorf("stencil %q failed: %s", name, rec.Error)
	}

	k := plotOrder
	if k < 0 {
		k = rec.Order
	}
	_, weights := storage.Column(rows[name], k)
	if len(weights) == 0 {
		return fmt.Errorf("stencil %q has no stored weights for order %d", name, k)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\nstencil: %s\n\n", meta.ID, name)
	fmt.Fprintln(out, viz.PlotWeights(weights, viz.Heading(k, rec.At, len(weights))))
	return nil
}
