package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime/pprof"

	"github.com/alecthomas/repr"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/cmdneo/tree_lox/ast"
	"github.com/cmdneo/tree_lox/config"
	"github.com/cmdneo/tree_lox/lox"
)

// Process exit codes.
const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
	exitFatal   = 71
	exitIO      = 74
	exitConfig  = 78
)

func main() {
	app := &cli.App{
		Name:      "tree_lox",
		Usage:     "tree-walking Lox interpreter",
		ArgsUsage: "[script]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "settings file (default ~/" + config.FileName + ")",
			},
			&cli.BoolFlag{
				Name:  "color",
				Usage: "color diagnostics",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print call frames of runtime errors",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "maximum call depth",
			},
			&cli.StringFlag{
				Name:    "cpuprofile",
				Usage:   "write a CPU profile to `FILE`",
				EnvVars: []string{"CPUPROFILE"},
			},
			&cli.BoolFlag{
				Name:  "print-ast",
				Usage: "print the syntax tree instead of running",
			},
			&cli.BoolFlag{
				Name:  "dump-ast",
				Usage: "dump the raw syntax tree instead of running",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log interpreter activity to stderr",
			},
		},
		Action: run,
	}

	// Exit codes returned by run are handled inside app.Run, what reaches
	// here is a command-line usage error.
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

type runner struct {
	cfg     *config.Config
	session *lox.Session

	printAST bool
	dumpAST  bool
}

func run(c *cli.Context) error {
	if c.Args().Len() > 1 {
		cli.ShowAppHelp(c)
		return cli.Exit("", exitUsage)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		reportError(err, c.Bool("trace"))
		return cli.Exit("", exitConfig)
	}

	// Start CPU profile if enabled via the flag or the env-var CPUPROFILE.
	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			log.Fatalf(
				"Cannot create profile output file: '%v' (%v).\n",
				cfg.CPUProfile, err,
			)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	r := &runner{
		cfg: cfg,
		session: lox.NewSession(lox.Options{
			Out:      os.Stdout,
			Err:      os.Stderr,
			Color:    cfg.Color,
			Trace:    cfg.Trace,
			MaxDepth: cfg.MaxCallDepth,
			Logger:   logger,
		}),
		printAST: c.Bool("print-ast"),
		dumpAST:  c.Bool("dump-ast"),
	}

	if c.Args().Len() == 0 {
		return r.prompt()
	}
	return r.file(c.Args().First())
}

// Reads the settings file and applies the flags over it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("color") {
		cfg.Color = c.Bool("color")
	}
	if c.IsSet("trace") {
		cfg.Trace = c.Bool("trace")
	}
	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}
	if c.IsSet("max-depth") {
		if c.Int("max-depth") <= 0 {
			return nil, tracerr.Errorf("--max-depth must be positive")
		}
		cfg.MaxCallDepth = c.Int("max-depth")
	}
	if p := c.String("cpuprofile"); p != "" {
		cfg.CPUProfile = p
	}
	return cfg, nil
}

func (r *runner) file(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		reportError(tracerr.Wrap(err), r.cfg.Trace)
		return cli.Exit("", exitIO)
	}

	if r.printAST || r.dumpAST {
		if !r.show(string(source)) {
			return cli.Exit("", exitStatic)
		}
		return nil
	}

	if err := r.session.Run(string(source)); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v.\n", err)
		return cli.Exit("", exitFatal)
	}

	switch {
	case r.session.HadError():
		return cli.Exit("", exitStatic)
	case r.session.HadRuntimeError():
		return cli.Exit("", exitRuntime)
	}
	return nil
}

func (r *runner) prompt() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(r.cfg.HistoryFile); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer r.saveHistory(ln)

	for {
		line, err := ln.Prompt(r.cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			reportError(tracerr.Wrap(err), r.cfg.Trace)
			return cli.Exit("", exitIO)
		}

		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if r.printAST || r.dumpAST {
			r.show(line)
			continue
		}

		// Errors are reported by the session, the next line starts afresh.
		if err := r.session.Run(line); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v.\n", err)
			return cli.Exit("", exitFatal)
		}
	}

	fmt.Fprintln(os.Stderr, "[EXIT]")
	return nil
}

func (r *runner) saveHistory(ln *liner.State) {
	if r.cfg.HistoryFile == "" {
		return
	}
	if f, err := os.Create(r.cfg.HistoryFile); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// Prints the syntax tree of source, returns false if it did not parse.
func (r *runner) show(source string) bool {
	stmts, ok := r.session.Parse(source)
	if !ok {
		return false
	}

	if r.printAST {
		fmt.Println(ast.PrintStmts(stmts))
	}
	if r.dumpAST {
		fmt.Println(repr.String(stmts, repr.Indent("  ")))
	}
	return true
}

func reportError(err error, trace bool) {
	if trace {
		tracerr.PrintSourceColor(err)
		return
	}
	fmt.Fprintln(os.Stderr, tracerr.Unwrap(err))
}
