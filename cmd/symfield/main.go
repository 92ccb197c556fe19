package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/symfield/internal/config"
	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/export"
	"github.com/san-kum/symfield/internal/gui"
	"github.com/san-kum/symfield/internal/metrics"
	"github.com/san-kum/symfield/internal/registry"
	"github.com/san-kum/symfield/internal/render"
	"github.com/san-kum/symfield/internal/scenario"
	"github.com/san-kum/symfield/internal/sim"
	"github.com/san-kum/symfield/internal/storage"
	"github.com/san-kum/symfield/internal/viz"
)

var (
	frames   int
	width    int
	height   int
	snapOut  string
	gifOut   string
	every    int
	duration time.Duration
	theme    string
	ticks    int
	runsDir  string
	saveRun  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "symfield",
		Short:        "drifting field of mathematical symbols",
		SilenceUsage: true,
		RunE:         runWindow,
	}
	addConfigFlags(rootCmd.PersistentFlags())

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open a resizable window (default)",
		RunE:  runWindow,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", "aurora", "panel theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless for a duration and print metrics",
		RunE:  runHeadless,
	}
	runCmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "how long to run")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run's metrics under --runs-dir")
	runCmd.Flags().StringVar(&runsDir, "runs-dir", "runs", "run store directory")
	addSizeFlags(runCmd)

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored headless runs",
		RunE:  runList,
	}
	runsCmd.Flags().StringVar(&runsDir, "runs-dir", "runs", "run store directory")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame to svg or png",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&frames, "frames", 120, "ticks before the snapshot")
	snapshotCmd.Flags().StringVarP(&snapOut, "output", "o", "symfield.svg", "output file (.svg or .png)")
	addSizeFlags(snapshotCmd)

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record an animated gif",
		RunE:  runRecord,
	}
	recordCmd.Flags().IntVar(&frames, "frames", 120, "ticks to record")
	recordCmd.Flags().IntVar(&every, "every", 2, "capture every n-th tick")
	recordCmd.Flags().StringVarP(&gifOut, "output", "o", "symfield.gif", "output file")
	addSizeFlags(recordCmd)

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml scenario headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark neighbor builders",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&ticks, "ticks", 500, "ticks per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, palettes and builders",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintln(out, "palettes:")
			for _, p := range reg.ListPalettes() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintln(out, "builders:")
			for _, b := range reg.ListBuilders() {
				fmt.Fprintf(out, "  %s\n", b)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return errors.Wrapf(err, "write %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	})

	rootCmd.AddCommand(windowCmd, liveCmd, runCmd, runsCmd, snapshotCmd, recordCmd, scriptCmd, benchCmd, presetsCmd, configCmd)
	return rootCmd
}

func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", 1280, "viewport width")
	cmd.Flags().IntVar(&height, "height", 720, "viewport height")
}

// setup resolves configuration and logging for a command.
func setup(cmd *cobra.Command, quiet bool) (*config.Config, *logrus.Logger, func(), error) {
	log, closer, err := newLogger(cmd.Flags(), quiet)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		closer.Close()
		return nil, nil, nil, err
	}
	return cfg, log, func() { closer.Close() }, nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, log, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()
	return gui.Run(sim.New(cfg, sim.WithLogger(log)), cfg.Window, log)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, log, done, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer done()

	sched := sim.New(cfg, sim.WithLogger(log))
	rec := metrics.NewRecorder(240, metrics.Defaults(cfg.Energy.Max, cfg.Render.RingThreshold)...)
	final, err := tea.NewProgram(viz.NewModel(sched, rec, cfg.Window.FPS, theme), tea.WithAltScreen()).Run()
	sched.Stop()
	if err != nil {
		return errors.Wrap(err, "terminal")
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func viewport() dynamo.Viewport {
	return dynamo.Viewport{Width: float64(width), Height: float64(height)}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, log, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	sched := sim.New(cfg, sim.WithLogger(log))
	rec := metrics.NewRecorder(0, metrics.Defaults(cfg.Energy.Max, cfg.Render.RingThreshold)...)
	sched.AddObserver(rec)
	if err := sched.Start(viewport(), render.Discard{}); err != nil {
		return err
	}

	start := time.Now()
	ticker := time.NewTicker(time.Second / time.Duration(cfg.Window.FPS))
	defer ticker.Stop()
	if err := sched.Run(ctx, ticker.C); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frames: %d\n", sched.Frames())
	for _, name := range rec.Names() {
		fmt.Fprintf(out, "%s: %.3f\n", name, rec.Latest()[name])
	}
	if !saveRun {
		return nil
	}

	preset, _ := cmd.Flags().GetString("preset")
	vp := viewport()
	st := storage.New(runsDir)
	if err := st.Init(); err != nil {
		return errors.Wrap(err, "run store")
	}
	id, err := st.Save(storage.RunMetadata{
		Preset:   preset,
		Seed:     sched.Seed(),
		Frames:   sched.Frames(),
		Duration: time.Since(start),
		Width:    vp.Width,
		Height:   vp.Height,
		Config:   cfg,
	}, rec)
	if err != nil {
		return err
	}
	log.WithField("id", id).Info("run saved")
	fmt.Fprintf(out, "saved: %s\n", id)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(runsDir).List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs stored in", runsDir)
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tFRAMES\tMEAN ENERGY\tLINKS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\t%.0f\n", r.ID, r.Seed, r.Frames, r.Metrics["mean_energy"], r.Metrics["connections"])
	}
	return w.Flush()
}

// advance starts a scheduler on surface and runs n frames, calling each
// after every frame. Frame time is n/fps regardless of how long rendering
// takes.
func advance(cfg *config.Config, log logrus.FieldLogger, surface render.Surface, n int, each func(i int)) (*sim.Scheduler, error) {
	sched := sim.New(cfg, sim.WithLogger(log), sim.WithFixedStep(scenario.FrameStep(cfg.Window.FPS)))
	if err := sched.Start(viewport(), surface); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		sched.Frame()
		if each != nil {
			each(i)
		}
	}
	return sched, nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, log, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	sched, err := advance(cfg, log, render.Discard{}, frames, nil)
	if err != nil {
		return err
	}
	defer sched.Stop()

	r, err := render.New(cfg.Render, cfg.Energy.Max)
	if err != nil {
		return err
	}
	if err := export.WriteFrame(snapOut, r, sched.Snapshot()); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"path": snapOut, "frame": sched.Frames()}).Info("snapshot written")
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, log, done, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer done()

	ras, err := export.NewRaster()
	if err != nil {
		return err
	}
	if every < 1 {
		every = 1
	}
	rec := export.NewGIFRecorder(gifDelay(cfg.Window.FPS, every), 0)
	sched, err := advance(cfg, log, ras, frames, func(i int) {
		if i%every == 0 {
			rec.Capture(ras.Image())
		}
	})
	if err != nil {
		return err
	}
	defer sched.Stop()

	if err := export.WriteGIF(gifOut, rec); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"path": gifOut, "frames": rec.Len()}).Info("recording written")
	return nil
}

// gifDelay is the GIF frame delay, in hundredths of a second, for capturing
// every n-th frame at fps.
func gifDelay(fps, every int) int {
	if fps <= 0 || every <= 0 {
		return 0
	}
	return max(1, int(math.Round(float64(100*every)/float64(fps))))
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cmd.Flags(), false)
	if err != nil {
		return err
	}
	defer closer.Close()
	cfg, err := resolveWithPreset(cmd.Flags(), sc.Preset)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := scenario.Run(ctx, sc, cfg, log)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
