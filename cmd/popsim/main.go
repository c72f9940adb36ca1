package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/popsim/internal/api"
	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/export"
	"github.com/san-kum/popsim/internal/growth"
	"github.com/san-kum/popsim/internal/tui"
	"github.com/san-kum/popsim/internal/viz"
)

var (
	configFile string
	preset     string
	envFiles   []string
	themeName  string
	verbose    bool

	popA     float64
	rateA    float64
	popB     float64
	rateB    float64
	maxYears int
	labelA   string
	labelB   string

	chartWidth  int
	chartHeight int
	noTable     bool
	csvInput    string
	svgWidth    int
	svgHeight   int
	addr        string
)

// main builds the popsim command tree and exits with status 1 if it fails.
// Without a subcommand the interactive form is launched.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "popsim",
		Short: "how many years until population A catches population B",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files with POPSIM_* overrides (default .env)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "default", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate and print outcome, summary, chart and table",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	addChartFlags(runCmd)
	runCmd.Flags().BoolVar(&noTable, "no-table", false, "skip the year-by-year table")

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "print the year-by-year table",
		Args:  cobra.NoArgs,
		RunE:  printTable,
	}
	addScenarioFlags(tableCmd)

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot both populations by year",
		Args:  cobra.NoArgs,
		RunE:  plotRecords,
	}
	addScenarioFlags(plotCmd)
	addChartFlags(plotCmd)
	plotCmd.Flags().StringVar(&csvInput, "csv", "", "plot records from an exported csv instead of simulating")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [file]",
		Short: "export records as csv (stdout without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	addScenarioFlags(exportCSVCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [file]",
		Short: "export the full result as json (stdout without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	addScenarioFlags(exportJSONCmd)

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [file]",
		Short: "export the population chart as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	addScenarioFlags(exportSVGCmd)
	exportSVGCmd.Flags().IntVar(&svgWidth, "svg-width", 800, "svg width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "svg-height", 400, "svg height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the resolved scenario to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	addScenarioFlags(initConfigCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive form",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	addScenarioFlags(tuiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve simulations over http",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	addScenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	rootCmd.AddCommand(runCmd, tableCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initConfigCmd, tuiCmd, serveCmd)
	return rootCmd
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&popA, "pop-a", config.DefaultPopulationA, "initial population of A")
	cmd.Flags().Float64Var(&rateA, "rate-a", config.DefaultRateA, "annual growth rate of A (%)")
	cmd.Flags().Float64Var(&popB, "pop-b", config.DefaultPopulationB, "initial population of B")
	cmd.Flags().Float64Var(&rateB, "rate-b", config.DefaultRateB, "annual growth rate of B (%)")
	cmd.Flags().IntVar(&maxYears, "max-years", config.DefaultMaxYears, "safety cap on simulated years")
	cmd.Flags().StringVar(&labelA, "label-a", config.DefaultLabelA, "display name of A")
	cmd.Flags().StringVar(&labelB, "label-b", config.DefaultLabelB, "display name of B")
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&chartWidth, "width", 70, "chart width")
	cmd.Flags().IntVar(&chartHeight, "height", 12, "chart height")
}

// resolveConfig layers defaults, preset, config file, environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, nil); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("pop-a") {
		cfg.PopulationA = popA
	}
	if flags.Changed("rate-a") {
		cfg.RateA = rateA
	}
	if flags.Changed("pop-b") {
		cfg.PopulationB = popB
	}
	if flags.Changed("rate-b") {
		cfg.RateB = rateB
	}
	if flags.Changed("max-years") {
		cfg.MaxYears = maxYears
	}
	if flags.Changed("label-a") {
		cfg.Labels.A = labelA
	}
	if flags.Changed("label-b") {
		cfg.Labels.B = labelB
	}

	slog.Debug("resolved scenario",
		slog.Float64("population_a", cfg.PopulationA),
		slog.Float64("rate_a", cfg.RateA),
		slog.Float64("population_b", cfg.PopulationB),
		slog.Float64("rate_b", cfg.RateB),
		slog.Int("max_years", cfg.MaxYears),
	)
	return cfg, nil
}

func simulate(cmd *cobra.Command) (*config.Config, *growth.Result, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	res, err := growth.Simulate(cfg.Input())
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("simulation finished",
		slog.String("outcome", res.Outcome.String()),
		slog.Int("years", res.YearsElapsed),
		slog.Duration("elapsed", time.Since(start)),
	)
	return cfg, res, nil
}

func renderer(cfg *config.Config) *viz.Renderer {
	return viz.NewRenderer(viz.GetTheme(themeName), cfg.Labels)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, res, err := simulate(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	r := renderer(cfg)

	fmt.Fprintln(out, r.Outcome(res))
	if !res.Overtaken() {
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, r.Styles.Panel.Render(r.Summary(res)))
	if chart := r.Chart(res.Records, chartWidth, chartHeight); chart != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, chart)
	}
	if !noTable && len(res.Records) > 0 {
		fmt.Fprintln(out)
		if err := r.Table(out, res); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, r.Styles.Subtle.Render("growth is compounded yearly on the exact totals; whole inhabitants are shown."))
	return nil
}

func printTable(cmd *cobra.Command, args []string) error {
	cfg, res, err := simulate(cmd)
	if err != nil {
		return err
	}
	if len(res.Records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no years simulated")
		return nil
	}
	return renderer(cfg).Table(cmd.OutOrStdout(), res)
}

func plotRecords(cmd *cobra.Command, args []string) error {
	var (
		cfg     *config.Config
		records []growth.YearRecord
		err     error
	)

	if csvInput != "" {
		cfg, err = resolveConfig(cmd)
		if err != nil {
			return err
		}
		records, err = readCSVFile(csvInput)
		if err != nil {
			return err
		}
	} else {
		var res *growth.Result
		cfg, res, err = simulate(cmd)
		if err != nil {
			return err
		}
		records = res.Records
	}

	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "samples: %d\n\n", len(records))
	fmt.Fprintln(cmd.OutOrStdout(), renderer(cfg).Chart(records, chartWidth, chartHeight))
	return nil
}

func readCSVFile(path string) ([]growth.YearRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := export.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, res, err := simulate(cmd)
	if err != nil {
		return err
	}
	return writeExport(cmd, args, func(w io.Writer) error {
		return export.WriteCSV(w, res.Records)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, res, err := simulate(cmd)
	if err != nil {
		return err
	}
	doc := export.NewDocument(res)
	slog.Debug("exporting json", slog.String("run_id", doc.RunID))
	return writeExport(cmd, args, func(w io.Writer) error {
		return export.WriteJSON(w, doc)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, res, err := simulate(cmd)
	if err != nil {
		return err
	}
	svg := export.ChartSVG(res.Records, cfg.Labels.A, cfg.Labels.B, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("need at least two simulated years for a chart, got %d", len(res.Records))
	}
	return writeExport(cmd, args, func(w io.Writer) error {
		_, err := io.WriteString(w, svg)
		return err
	})
}

// writeExport sends output to the file named in args, or to stdout.
func writeExport(cmd *cobra.Command, args []string, write func(io.Writer) error) error {
	if len(args) == 0 {
		return write(cmd.OutOrStdout())
	}
	if err := export.WriteFile(args[0], write); err != nil {
		return fmt.Errorf("export %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOP A\tRATE A\tPOP B\tRATE B\tMAX YEARS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.0f\t%.2f%%\t%.0f\t%.2f%%\t%d\n",
			name, p.PopulationA, p.RateA, p.PopulationB, p.RateB, p.MaxYears)
	}
	return w.Flush()
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(cfg, viz.GetTheme(themeName))
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewHandler(logger, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
