package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"drawrec/internal/config"
	"drawrec/internal/graph"
	"drawrec/internal/observ"
	"drawrec/internal/prof"
	"drawrec/internal/report"
	"drawrec/internal/summary"
	"drawrec/internal/trace"
	"drawrec/internal/tracker"
)

// reportFlags are the reporter switches shared by run and batch. They
// override the [report] and [track] sections of drawrec.toml.
type reportFlags struct {
	stdout    bool
	noGraph   bool
	dir       string
	overwrite bool
	archive   bool
	tree      bool
	depthPlot bool
	ignoreKW  []string
}

func (f *reportFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.stdout, "stdout", false, "print the console summary after the run")
	fs.BoolVar(&f.noGraph, "no-graph", false, "do not write the HTML graph page")
	fs.StringVar(&f.dir, "dir", "", "directory for HTML pages and archives (default "+report.DefaultDir+")")
	fs.BoolVar(&f.overwrite, "overwrite", false, "replace existing pages instead of adding _vN suffixes")
	fs.BoolVar(&f.archive, "archive", false, "also write a msgpack archive for replay")
	fs.BoolVar(&f.tree, "tree", false, "print the call tree")
	fs.BoolVar(&f.depthPlot, "depth-plot", false, "plot calls per depth under the console summary")
	fs.StringSliceVar(&f.ignoreKW, "ignore-kw", nil, "keyword arguments to hide from signatures")
}

func (f *reportFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("stdout") {
		cfg.Report.Stdout = f.stdout
	}
	if fs.Changed("no-graph") {
		cfg.Report.Graph = !f.noGraph
	}
	if fs.Changed("dir") {
		cfg.Report.Dir = f.dir
	}
	if fs.Changed("overwrite") {
		cfg.Report.Overwrite = f.overwrite
	}
	if fs.Changed("archive") {
		cfg.Report.Archive = f.archive
	}
	if fs.Changed("tree") {
		cfg.Report.Tree = f.tree
	}
	if fs.Changed("depth-plot") {
		cfg.Report.DepthPlot = f.depthPlot
	}
	if fs.Changed("ignore-kw") {
		cfg.Track.IgnoreKwargs = append(cfg.Track.IgnoreKwargs, f.ignoreKW...)
	}
}

// loadConfig reads --config, or the nearest drawrec.toml, and applies the
// command's report flags.
func loadConfig(cmd *cobra.Command, rf *reportFlags) (config.Config, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg, _, err := config.Discover(explicit, ".")
	if err != nil {
		return config.Config{}, err
	}
	if rf != nil {
		rf.apply(cmd.Flags(), &cfg)
	}
	return cfg, nil
}

// session holds what every tracker of one command shares.
type session struct {
	cfg      config.Config
	tracer   trace.Tracer
	useColor bool
	stderr   io.Writer

	tracing *tracing
	prof    *prof.Session
	timer   *observ.Timer // nil unless --timings
}

// newTracker builds a tracker whose console output goes to out.
func (s *session) newTracker(out io.Writer) *tracker.Tracker {
	written := func(path string) { fmt.Fprintf(s.stderr, "wrote %s\n", path) }
	opts := []tracker.Option{
		tracker.TraceTo(s.tracer),
		tracker.WithSummaryBuilder(summary.Builder{
			Graph: graph.Builder{Name: s.cfg.Graph.Name, Palette: s.cfg.Palette()},
		}),
		tracker.WithErrorHandler(func(err error) {
			fmt.Fprintf(s.stderr, "drawrec: %v\n", err)
		}),
		tracker.WithStdoutReporter(&report.Console{
			Out:       out,
			NoColor:   !s.useColor,
			DepthPlot: s.cfg.Report.DepthPlot,
		}),
		tracker.WithGraphReporter(&report.HTML{
			Dir:       s.cfg.Report.Dir,
			Overwrite: s.cfg.Report.Overwrite,
			Written:   written,
		}),
	}
	if s.cfg.Report.Tree {
		opts = append(opts, tracker.WithReporter(&report.Tree{Out: out}))
	}
	if s.cfg.Report.Archive {
		opts = append(opts, tracker.WithReporter(&report.Archive{
			Dir:       s.cfg.Report.Dir,
			Overwrite: s.cfg.Report.Overwrite,
			Written:   written,
		}))
	}
	return tracker.New(opts...)
}

// funcOptions are the per-function options derived from the config.
func (s *session) funcOptions() []tracker.FuncOption {
	return []tracker.FuncOption{
		tracker.ReportToStdout(s.cfg.Report.Stdout),
		tracker.EmitGraphReport(s.cfg.Report.Graph),
		tracker.IgnoreKeywords(s.cfg.Track.IgnoreKwargs...),
	}
}

// startSession loads the config, sets up colors, tracing and profiling.
func startSession(cmd *cobra.Command, rf *reportFlags) (*session, error) {
	cfg, err := loadConfig(cmd, rf)
	if err != nil {
		return nil, err
	}
	useColor, err := applyColorMode(cmd)
	if err != nil {
		return nil, err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return nil, err
	}
	tr, err := setupTracing(cmd, cfg)
	if err != nil {
		return nil, err
	}
	p, err := setupProfiling(cmd)
	if err != nil {
		tr.stop()
		return nil, err
	}
	s := &session{
		cfg:      cfg,
		tracer:   tr.tracer,
		useColor: useColor,
		stderr:   cmd.ErrOrStderr(),
		tracing:  tr,
		prof:     p,
	}
	if timings {
		s.timer = observ.NewTimer()
	}
	return s, nil
}

// timed runs fn as a phase named name when timings are enabled.
func (s *session) timed(name string, fn func() (string, error)) (string, error) {
	if s.timer == nil {
		return fn()
	}
	idx := s.timer.Begin(name)
	out, err := fn()
	note := out
	if err != nil {
		note = "failed"
	}
	s.timer.End(idx, note)
	return out, err
}

// stop flushes profiles and traces and prints timings.
func (s *session) stop() {
	if err := s.prof.Stop(); err != nil {
		fmt.Fprintf(s.stderr, "profile: %v\n", err)
	}
	s.tracing.stop()
	if s.timer != nil {
		fmt.Fprint(s.stderr, s.timer.Summary())
	}
}
